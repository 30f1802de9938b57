package auth

import (
	"encoding/json"
	"net/http"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/logger"
	"github.com/futig/tutor-backend/internal/pkg/response"
	"github.com/futig/tutor-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   AuthUsecase
	validator *validator.Validator
}

func NewHandler(usecase AuthUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Register")

	var req entity.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.String("username", req.Username))

	user, err := h.usecase.Register(ctx, &req)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, user)
}

// Token handles POST /auth/token - form or JSON credentials
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Token")

	var req entity.LoginRequest
	if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			response.Fail(ctx, w, http.StatusBadRequest, "invalid form data", err)
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	token, err := h.usecase.Login(ctx, &req)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, token)
}
