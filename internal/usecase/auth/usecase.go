package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type TokenIssuer interface {
	GenerateToken(username string, role entity.UserRole) (string, error)
}

// AuthUsecase registers users and exchanges credentials for access tokens
type AuthUsecase struct {
	userRepo   repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	logger     *zap.Logger
}

func NewUsecase(userRepo repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

func (uc *AuthUsecase) Register(ctx context.Context, req *entity.UserCreate) (*entity.User, error) {
	role := req.Role
	if role == "" {
		role = entity.RoleStudent
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := uc.userRepo.Create(ctx, &entity.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		Role:           role,
		HashedPassword: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	ctxzap.Info(ctx, "user registered", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies the password and issues a bearer token. Unknown users and
// wrong passwords produce the same error.
func (uc *AuthUsecase) Login(ctx context.Context, req *entity.LoginRequest) (*entity.Token, error) {
	user, err := uc.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			ctxzap.Info(ctx, "login for unknown user", zap.String("username", req.Username))
			return nil, entity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		ctxzap.Info(ctx, "login with wrong password", zap.String("username", req.Username))
		return nil, entity.ErrInvalidCredentials
	}

	token, err := uc.tokens.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &entity.Token{AccessToken: token, TokenType: "bearer"}, nil
}
