package entity

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// ChatRequest is the stateless chat contract: the client sends the whole history.
type ChatRequest struct {
	Messages         []ChatMessage   `json:"messages" validate:"required,min=1,dive"`
	Persona          string          `json:"persona" validate:"required"`
	EducationalLevel string          `json:"educational_level"`
	LLMProvider      ProviderID      `json:"llm_provider" validate:"required"`
	RAGScope         *RetrievalScope `json:"rag_scope,omitempty" validate:"omitempty"`
}

type ChatResponse struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type CreateChatSessionRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// SendMessageRequest appends one user turn to a persisted session.
type SendMessageRequest struct {
	Content          string          `json:"content" validate:"required"`
	Persona          string          `json:"persona" validate:"required"`
	EducationalLevel string          `json:"educational_level"`
	LLMProvider      ProviderID      `json:"llm_provider" validate:"required"`
	RAGScope         *RetrievalScope `json:"rag_scope,omitempty" validate:"omitempty"`
}

type ListChatSessionsResponse struct {
	Sessions []*ChatSession `json:"sessions"`
}

type ListProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// QuotaErrorResponse is returned with 413 when an upload would exceed the storage limit.
type QuotaErrorResponse struct {
	ErrorResponse
	LimitMB     float64 `json:"limit_mb"`
	UsageMB     float64 `json:"usage_mb"`
	AttemptedMB float64 `json:"attempted_mb"`
	RemainingMB float64 `json:"remaining_mb"`
	ExceedsByMB float64 `json:"exceeds_by_mb"`
}
