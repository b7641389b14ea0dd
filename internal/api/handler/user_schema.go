package handler

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userDTO never carries the password hash or role.
type userDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
}

type userResponse struct {
	Success bool    `json:"success"`
	User    userDTO `json:"user"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Message  string `json:"message"`
}

// errorResponse documents the error envelope written by the terminal error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"   example:"Insufficient permissions"`
}
