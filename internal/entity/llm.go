package entity

// ProviderID is the logical name of an LLM provider as clients send it.
type ProviderID string

const (
	ProviderTogetherAI ProviderID = "TogetherAI"
	ProviderOpenAI     ProviderID = "OpenAI"
	ProviderGoogle     ProviderID = "Google"
)

// ComposedPrompt is the provider-agnostic request produced by the prompt composer.
type ComposedPrompt struct {
	SystemInstruction string        `json:"system_instruction"`
	Messages          []ChatMessage `json:"messages"`
}

// LatestContent returns the content of the final message, or "" when there is none.
func (p *ComposedPrompt) LatestContent() string {
	if len(p.Messages) == 0 {
		return ""
	}
	return p.Messages[len(p.Messages)-1].Content
}

// Completion is a successful provider response.
type Completion struct {
	Provider ProviderID `json:"provider"`
	Model    string     `json:"model"`
	Content  string     `json:"content"`
}

type ProviderInfo struct {
	ID    ProviderID `json:"id"`
	Model string     `json:"model"`
}

// ChatTurn is everything needed to answer one chat request.
type ChatTurn struct {
	OwnerID  string
	Persona  string
	Level    string
	Provider ProviderID
	Scope    *RetrievalScope
	Messages []ChatMessage
}

// SessionContext carries the per-request chat settings of an authenticated user.
type SessionContext struct {
	OwnerID   string
	SessionID string
	Persona   string
	Level     string
	Provider  ProviderID
	Scope     *RetrievalScope
}

// TurnResult is the outcome of a persisted chat turn.
type TurnResult struct {
	UserMessage      *StoredChatMessage `json:"user_message"`
	AssistantMessage *StoredChatMessage `json:"assistant_message"`
	Provider         ProviderID         `json:"provider"`
	Model            string             `json:"model"`
	RetrievedChunks  int                `json:"retrieved_chunks"`
}

// ChatReply is the answer to a stateless chat turn.
type ChatReply struct {
	Completion
	RetrievedChunks int `json:"retrieved_chunks"`
}
