package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/tutor-backend/internal/api/middleware"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/formatter"
	"github.com/futig/tutor-backend/internal/pkg/logger"
	"github.com/futig/tutor-backend/internal/pkg/response"
	"github.com/futig/tutor-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    ChatUsecase
	validator  *validator.Validator
	formatters *formatter.Factory
}

func NewHandler(usecase ChatUsecase, validator *validator.Validator, formatters *formatter.Factory) *Handler {
	return &Handler{
		usecase:    usecase,
		validator:  validator,
		formatters: formatters,
	}
}

// Chat handles POST /chat - answer a client-held conversation
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("provider", string(req.LLMProvider)),
		zap.Int("message_count", len(req.Messages)),
	)

	reply, err := h.usecase.Complete(ctx, &entity.ChatTurn{
		OwnerID:  caller.Username,
		Persona:  req.Persona,
		Level:    req.EducationalLevel,
		Provider: req.LLMProvider,
		Scope:    req.RAGScope,
		Messages: req.Messages,
	})
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chat answered", zap.Int("retrieved_chunks", reply.RetrievedChunks))
	response.Success(w, entity.ChatResponse{
		Role:    entity.ChatRoleAssistant,
		Content: reply.Content,
	})
}

// ListProviders handles GET /providers
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.ListProvidersResponse{Providers: h.usecase.Providers()})
}

// CreateSession handles POST /chat-sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateChatSession")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	var req entity.CreateChatSessionRequest
	// An empty body creates an untitled session.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	session, err := h.usecase.CreateSession(ctx, caller.Username, &req)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, session)
}

// ListSessions handles GET /chat-sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListChatSessions")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	sessions, err := h.usecase.ListSessions(ctx, caller.Username)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}
	if sessions == nil {
		sessions = []*entity.ChatSession{}
	}

	response.Success(w, entity.ListChatSessionsResponse{Sessions: sessions})
}

// GetSession handles GET /chat-sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetChatSession"),
	)

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	session, err := h.usecase.GetSession(ctx, caller.Username, sessionID)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}
	if session.Messages == nil {
		session.Messages = []*entity.StoredChatMessage{}
	}

	response.Success(w, session)
}

// DeleteSession handles DELETE /chat-sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "DeleteChatSession"),
	)

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	if err := h.usecase.DeleteSession(ctx, caller.Username, sessionID); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// SendMessage handles POST /chat-sessions/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "SendMessage"),
	)

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	result, err := h.usecase.SendMessage(ctx, &entity.SessionContext{
		OwnerID:   caller.Username,
		SessionID: sessionID,
		Persona:   req.Persona,
		Level:     req.EducationalLevel,
		Provider:  req.LLMProvider,
		Scope:     req.RAGScope,
	}, req.Content)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, result)
}

// ExportSession handles GET /chat-sessions/{id}/export?format=markdown|docx|pdf
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ExportChatSession"),
	)

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		response.Fail(ctx, w, http.StatusBadRequest, "format must be one of: markdown, docx, pdf",
			fmt.Errorf("%w: format %q", entity.ErrInvalidParameter, formatParam))
		return
	}

	title, transcript, err := h.usecase.Transcript(ctx, caller.Username, sessionID)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		response.Fail(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	body, err := fmtr.Format(title, transcript)
	if err != nil {
		response.Fail(ctx, w, http.StatusInternalServerError, "failed to format transcript", err)
		return
	}

	ctxzap.Info(ctx, "chat session exported", zap.String("format", string(format)))
	response.Attachment(w, fmtr.ContentType(), "chat-"+sessionID+fmtr.FileExtension(), body)
}
