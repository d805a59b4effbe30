package server

// SignupRequest is the JSON body of POST /users.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest carries the OAuth2 password form fields; username is the email.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserEmailResponse struct {
	Email string `json:"email"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
