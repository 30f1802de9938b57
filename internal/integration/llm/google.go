package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
	pkghttp "github.com/futig/tutor-backend/pkg/http"
)

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googleGenerateRequest struct {
	SystemInstruction *googleContent  `json:"system_instruction,omitempty"`
	Contents          []googleContent `json:"contents"`
}

type googleGenerateResponse struct {
	Candidates []struct {
		Content      googleContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// googleAdapter takes the system instruction separately and sends only the
// latest message; earlier turns are not part of the request.
type googleAdapter struct {
	connector *pkghttp.Connector
	apiKey    string
	model     string
}

// NewGoogle returns a factory for the Gemini generateContent REST API.
func NewGoogle(connector *pkghttp.Connector) Factory {
	return func(apiKey, model string) Adapter {
		return &googleAdapter{
			connector: connector,
			apiKey:    apiKey,
			model:     model,
		}
	}
}

func (a *googleAdapter) Complete(ctx context.Context, prompt *entity.ComposedPrompt) (string, error) {
	req := googleGenerateRequest{
		Contents: []googleContent{{
			Role:  "user",
			Parts: []googlePart{{Text: prompt.LatestContent()}},
		}},
	}
	if prompt.SystemInstruction != "" {
		req.SystemInstruction = &googleContent{Parts: []googlePart{{Text: prompt.SystemInstruction}}}
	}

	endpoint := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(a.model))

	var resp googleGenerateResponse
	err := a.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp,
		pkghttp.WithHeader("x-goog-api-key", a.apiKey),
	)
	if err != nil {
		return "", err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return text.String(), nil
}
