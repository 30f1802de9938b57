package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/tutor-backend/internal/api/middleware"
	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/formatter"
	"github.com/futig/tutor-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	turn        *entity.ChatTurn
	completeErr error

	sessionCtx *entity.SessionContext
	sendErr    error

	transcriptTitle string
	transcriptBody  string
}

func (f *fakeUsecase) Complete(_ context.Context, turn *entity.ChatTurn) (*entity.ChatReply, error) {
	f.turn = turn
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &entity.ChatReply{
		Completion: entity.Completion{Provider: turn.Provider, Model: "m", Content: "Plants make sugar from light."},
	}, nil
}

func (f *fakeUsecase) SendMessage(_ context.Context, sc *entity.SessionContext, content string) (*entity.TurnResult, error) {
	f.sessionCtx = sc
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &entity.TurnResult{
		UserMessage:      &entity.StoredChatMessage{SessionID: sc.SessionID, Position: 0, Role: entity.ChatRoleUser, Content: content},
		AssistantMessage: &entity.StoredChatMessage{SessionID: sc.SessionID, Position: 1, Role: entity.ChatRoleAssistant, Content: "answer"},
		Provider:         sc.Provider,
	}, nil
}

func (f *fakeUsecase) Providers() []entity.ProviderInfo {
	return []entity.ProviderInfo{{ID: entity.ProviderTogetherAI, Model: "llama"}}
}

func (f *fakeUsecase) CreateSession(_ context.Context, ownerID string, req *entity.CreateChatSessionRequest) (*entity.ChatSession, error) {
	return &entity.ChatSession{ID: "s1", OwnerID: ownerID, Title: req.Title}, nil
}

func (f *fakeUsecase) ListSessions(context.Context, string) ([]*entity.ChatSession, error) {
	return nil, nil
}

func (f *fakeUsecase) GetSession(_ context.Context, ownerID, sessionID string) (*entity.ChatSessionWithMessages, error) {
	return nil, entity.ErrSessionNotFound
}

func (f *fakeUsecase) DeleteSession(context.Context, string, string) error {
	return nil
}

func (f *fakeUsecase) Transcript(context.Context, string, string) (string, string, error) {
	return f.transcriptTitle, f.transcriptBody, nil
}

// newRouter mounts the chat routes behind a stub that authenticates every request as alice.
func newRouter(uc ChatUsecase, authenticated bool) http.Handler {
	h := NewHandler(uc, validator.New(config.FileUploadConfig{}), formatter.NewFactory())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authenticated {
				r = r.WithContext(middleware.WithIdentity(r.Context(), middleware.Identity{
					Username: "alice",
					Role:     entity.RoleStudent,
				}))
			}
			next.ServeHTTP(w, r)
		})
	})
	RegisterRoutes(r, h)
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const chatBody = `{
	"messages": [{"role": "user", "content": "What is photosynthesis?"}],
	"persona": "Biology tutor",
	"educational_level": "high school",
	"llm_provider": "TogetherAI",
	"rag_scope": {"scope_type": "category", "scope_id": "biology"}
}`

func TestChat_Answers(t *testing.T) {
	uc := &fakeUsecase{}
	rec := do(t, newRouter(uc, true), http.MethodPost, "/chat", chatBody)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp entity.ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, entity.ChatRoleAssistant, resp.Role)
	assert.Equal(t, "Plants make sugar from light.", resp.Content)

	require.NotNil(t, uc.turn)
	assert.Equal(t, "alice", uc.turn.OwnerID)
	assert.Equal(t, "high school", uc.turn.Level)
	assert.Equal(t, &entity.RetrievalScope{Type: entity.ScopeTypeCategory, ID: "biology"}, uc.turn.Scope)
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		authorized bool
		wantStatus int
	}{
		{
			name:       "unauthenticated",
			body:       chatBody,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed json",
			body:       `{"messages":`,
			authorized: true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing persona",
			body:       `{"messages":[{"role":"user","content":"hi"}],"llm_provider":"OpenAI"}`,
			authorized: true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown scope type",
			body:       `{"messages":[{"role":"user","content":"hi"}],"persona":"p","llm_provider":"OpenAI","rag_scope":{"scope_type":"course","scope_id":"x"}}`,
			authorized: true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported provider",
			body:       chatBody,
			err:        &entity.ConfigurationError{Provider: "Acme", Reason: entity.ReasonUnsupportedProvider},
			authorized: true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing credential",
			body:       chatBody,
			err:        &entity.ConfigurationError{Provider: "OpenAI", Reason: entity.ReasonMissingCredential},
			authorized: true,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "provider timeout",
			body:       chatBody,
			err:        &entity.ProviderError{Provider: "OpenAI", Kind: entity.ProviderErrorTimeout},
			authorized: true,
			wantStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{completeErr: tt.err}
			rec := do(t, newRouter(uc, tt.authorized), http.MethodPost, "/chat", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestListProviders(t *testing.T) {
	rec := do(t, newRouter(&fakeUsecase{}, true), http.MethodGet, "/providers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"providers":[{"id":"TogetherAI","model":"llama"}]}`, rec.Body.String())
}

func TestCreateSession_EmptyBody(t *testing.T) {
	rec := do(t, newRouter(&fakeUsecase{}, true), http.MethodPost, "/chat-sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session entity.ChatSession
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.Equal(t, "alice", session.OwnerID)
}

func TestListSessions_EmptyIsArray(t *testing.T) {
	rec := do(t, newRouter(&fakeUsecase{}, true), http.MethodGet, "/chat-sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sessions":[]}`, rec.Body.String())
}

func TestGetSession_NotFound(t *testing.T) {
	rec := do(t, newRouter(&fakeUsecase{}, true), http.MethodGet, "/chat-sessions/s9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessage(t *testing.T) {
	uc := &fakeUsecase{}
	rec := do(t, newRouter(uc, true), http.MethodPost, "/chat-sessions/s1/messages",
		`{"content":"Explain osmosis","persona":"Biology tutor","llm_provider":"Google"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, uc.sessionCtx)
	assert.Equal(t, "s1", uc.sessionCtx.SessionID)
	assert.Equal(t, "alice", uc.sessionCtx.OwnerID)
	assert.Nil(t, uc.sessionCtx.Scope)

	var result entity.TurnResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "Explain osmosis", result.UserMessage.Content)
	assert.Equal(t, 1, result.AssistantMessage.Position)
}

func TestSendMessage_SessionNotFound(t *testing.T) {
	uc := &fakeUsecase{sendErr: entity.ErrSessionNotFound}
	rec := do(t, newRouter(uc, true), http.MethodPost, "/chat-sessions/s1/messages",
		`{"content":"hi","persona":"p","llm_provider":"Google"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportSession(t *testing.T) {
	uc := &fakeUsecase{transcriptTitle: "Osmosis", transcriptBody: "Student:\nWhat is osmosis?"}
	router := newRouter(uc, true)

	rec := do(t, router, http.MethodGet, "/chat-sessions/s1/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="chat-s1.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "# Osmosis\n\n**Student:**\nWhat is osmosis?\n", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/chat-sessions/s1/export?format=pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = do(t, router, http.MethodGet, "/chat-sessions/s1/export?format=odt", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
