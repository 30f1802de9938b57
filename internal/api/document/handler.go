package document

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/tutor-backend/internal/api/middleware"
	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/logger"
	"github.com/futig/tutor-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	usecase DocumentUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// Upload handles POST /documents - multipart "file" and "category"
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleUsecaseError(ctx, w, fmt.Errorf("%w: request exceeds %d bytes", entity.ErrFileTooLarge, h.cfg.MaxUploadSize))
			return
		}
		response.Fail(ctx, w, http.StatusBadRequest, "invalid form data", err)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		response.HandleUsecaseError(ctx, w, fmt.Errorf("%w: exactly one file is required", entity.ErrMissingField))
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("filename", files[0].Filename),
		zap.Int64("size", files[0].Size),
	)

	res, err := h.usecase.Upload(ctx, &entity.UploadDocumentRequest{
		OwnerID:  caller.Username,
		Category: r.FormValue("category"),
		File:     files[0],
	})
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, res)
}

// List handles GET /documents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	docs, err := h.usecase.List(ctx, caller.Username)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, docs)
}

// Delete handles DELETE /documents/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("doc_id", docID),
		zap.String("action", "DeleteDocument"),
	)

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	if err := h.usecase.Delete(ctx, caller.Username, docID); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// StorageUsage handles GET /storage-usage
func (h *Handler) StorageUsage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StorageUsage")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	usage, err := h.usecase.Usage(ctx, caller.Username)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, usage)
}
