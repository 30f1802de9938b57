package chat

import (
	"fmt"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
)

const contextSection = "\n\n---\n\nContext from uploaded document:\n"

// SystemInstruction joins persona and educational level into one instruction.
func SystemInstruction(persona, level string) string {
	if level == "" {
		return persona
	}
	return fmt.Sprintf("%s You are teaching at a %s level.", persona, level)
}

// Compose builds the provider request. The last message must come from the user;
// retrieved chunks are appended to it in the given order. messages is not modified.
func Compose(persona, level string, messages []entity.ChatMessage, chunks []entity.ScoredChunk) (*entity.ComposedPrompt, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}
	last := messages[len(messages)-1]

	composed := make([]entity.ChatMessage, len(messages))
	copy(composed, messages)

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		composed[len(composed)-1] = entity.ChatMessage{
			Role:    entity.ChatRoleUser,
			Content: last.Content + contextSection + strings.Join(texts, "\n\n"),
		}
	}

	return &entity.ComposedPrompt{
		SystemInstruction: SystemInstruction(persona, level),
		Messages:          composed,
	}, nil
}

func validateMessages(messages []entity.ChatMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: %w", entity.ErrInvalidParameter, entity.ErrEmptyMessages)
	}
	if messages[len(messages)-1].Role != entity.ChatRoleUser {
		return fmt.Errorf("%w: %w", entity.ErrInvalidParameter, entity.ErrLastNotUser)
	}
	return nil
}
