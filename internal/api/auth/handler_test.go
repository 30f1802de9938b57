package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	registered *entity.UserCreate
	login      *entity.LoginRequest
}

func (f *fakeUsecase) Register(_ context.Context, req *entity.UserCreate) (*entity.User, error) {
	if req.Username == "taken" {
		return nil, entity.ErrUserExists
	}
	f.registered = req
	return &entity.User{Username: req.Username, Role: entity.RoleStudent, HashedPassword: "secret-hash"}, nil
}

func (f *fakeUsecase) Login(_ context.Context, req *entity.LoginRequest) (*entity.Token, error) {
	f.login = req
	if req.Password != "correct horse" {
		return nil, entity.ErrInvalidCredentials
	}
	return &entity.Token{AccessToken: "jwt", TokenType: "bearer"}, nil
}

func newRouter(uc AuthUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.New(config.FileUploadConfig{})))
	return r
}

func post(router http.Handler, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	uc := &fakeUsecase{}
	router := newRouter(uc)

	rec := post(router, "/auth/register", "application/json", `{"username":"alice","password":"correct horse"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret-hash")
	assert.Equal(t, "alice", uc.registered.Username)

	rec = post(router, "/auth/register", "application/json", `{"username":"alice","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(router, "/auth/register", "application/json", `{"username":"alice","password":"correct horse","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(router, "/auth/register", "application/json", `{"username":"taken","password":"correct horse"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestToken(t *testing.T) {
	uc := &fakeUsecase{}
	router := newRouter(uc)

	form := url.Values{"username": {"alice"}, "password": {"correct horse"}}
	rec := post(router, "/auth/token", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"access_token":"jwt","token_type":"bearer"}`, rec.Body.String())

	rec = post(router, "/auth/token", "application/json", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(router, "/auth/token", "application/json", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
