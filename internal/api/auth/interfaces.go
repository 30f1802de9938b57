package auth

import (
	"context"

	"github.com/futig/tutor-backend/internal/entity"
)

type AuthUsecase interface {
	Register(ctx context.Context, req *entity.UserCreate) (*entity.User, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.Token, error)
}
