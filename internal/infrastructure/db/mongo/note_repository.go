package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geonotes/notes-api/internal/core/domain"
)

const collectionNotes = "notes"

// NoteRepository implements ports.NoteRepository on the notes collection.
type NoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{col: db.Collection(collectionNotes)}
}

type noteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Latitude  float64            `bson:"latitude"`
	Longitude float64            `bson:"longitude"`
	AuthorID  string             `bson:"author_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *noteDoc) toDomain() *domain.Note {
	return &domain.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// FindByAuthor returns the author's notes, newest first.
func (r *NoteRepository) FindByAuthor(ctx context.Context, authorID string) ([]*domain.Note, error) {
	return r.find(ctx, bson.M{"author_id": authorID})
}

// FindAll returns every note, newest first.
func (r *NoteRepository) FindAll(ctx context.Context) ([]*domain.Note, error) {
	return r.find(ctx, bson.M{})
}

func (r *NoteRepository) find(ctx context.Context, filter bson.M) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []noteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].toDomain())
	}
	return notes, nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc noteDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "find note")
	}
	return doc.toDomain(), nil
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := noteDoc{
		ID:        primitive.NewObjectID(),
		Title:     n.Title,
		Content:   n.Content,
		Latitude:  n.Latitude,
		Longitude: n.Longitude,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies the non-nil fields and returns the note after the update.
func (r *NoteRepository) Update(ctx context.Context, id, authorID string, u domain.NoteUpdate) (*domain.Note, error) {
	filter, err := scopedFilter(id, authorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc noteDoc
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": updateSet(u)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFoundOr(err, "update note")
	}
	return doc.toDomain(), nil
}

// Delete removes the note and returns it as it was.
func (r *NoteRepository) Delete(ctx context.Context, id, authorID string) (*domain.Note, error) {
	filter, err := scopedFilter(id, authorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc noteDoc
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "delete note")
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the notes collection.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

// scopedFilter matches the id and, when authorID is set, the owner too.
func scopedFilter(id, authorID string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if authorID != "" {
		filter["author_id"] = authorID
	}
	return filter, nil
}

func updateSet(u domain.NoteUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.Latitude != nil {
		set["latitude"] = *u.Latitude
	}
	if u.Longitude != nil {
		set["longitude"] = *u.Longitude
	}
	return set
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrRecordNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
