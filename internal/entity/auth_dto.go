package entity

type UserCreate struct {
	Username string   `json:"username" validate:"required,min=3,max=64,alphanumunicode"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Email    *string  `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string  `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=student educator"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
