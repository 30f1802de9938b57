package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Username]; ok {
		return nil, entity.ErrUserExists
	}
	cp := *u
	f.users[u.Username] = &cp
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return u, nil
}

type fakeIssuer struct{}

func (fakeIssuer) GenerateToken(username string, role entity.UserRole) (string, error) {
	return "token-" + username + "-" + string(role), nil
}

func newTestUsecase() (*AuthUsecase, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[string]*entity.User{}}
	uc := NewUsecase(repo, fakeIssuer{}, zap.NewNop())
	uc.bcryptCost = bcrypt.MinCost
	return uc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, repo := newTestUsecase()
	ctx := context.Background()

	user, err := uc.Register(ctx, &entity.UserCreate{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, user.Role)
	assert.NotEqual(t, "correct horse", repo.users["alice"].HashedPassword)

	token, err := uc.Login(ctx, &entity.LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "token-alice-student", token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
}

func TestRegister_DuplicateAndBadRole(t *testing.T) {
	uc, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.Register(ctx, &entity.UserCreate{Username: "bob", Password: "password1", Role: entity.RoleEducator})
	require.NoError(t, err)

	_, err = uc.Register(ctx, &entity.UserCreate{Username: "bob", Password: "password2"})
	assert.ErrorIs(t, err, entity.ErrUserExists)

	_, err = uc.Register(ctx, &entity.UserCreate{Username: "carol", Password: "password3", Role: "admin"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.Register(ctx, &entity.UserCreate{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, &entity.LoginRequest{Username: "alice", Password: "wrong horse"})
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &entity.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}
