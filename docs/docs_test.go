package docs

import (
	"encoding/json"
	"testing"
)

func TestSwaggerInfo_EveryOperationDocumentsServerError(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Responses map[string]any `json:"responses"`
		} `json:"paths"`
	}
	if err := json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("rendered doc is not valid json: %v", err)
	}
	if len(doc.Paths) == 0 {
		t.Fatal("expected documented paths")
	}

	for path, ops := range doc.Paths {
		for method, op := range ops {
			if _, ok := op.Responses["500"]; !ok {
				t.Errorf("%s %s: missing 500 response", method, path)
			}
		}
	}

	me := doc.Paths["/user"]["get"].Responses
	for _, code := range []string{"200", "401", "403", "404", "500"} {
		if _, ok := me[code]; !ok {
			t.Errorf("GET /user: missing %s response", code)
		}
	}
}
