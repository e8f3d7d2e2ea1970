package llm

import (
	"context"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

// Request describes one chat completion call. Temperature and MaxTokens are
// translated into the parameter shape the target model expects; see
// buildRequest in openai.go.
type Request struct {
	Model       string
	Messages    []models.Message
	Temperature float32
	MaxTokens   int
	// ReasoningEffort replaces Temperature on reasoning-tier models.
	ReasoningEffort string
}

// Response is a completed (non-streamed) chat completion.
type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client abstracts the chat completion provider so callers can be tested
// against fakes.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	// CompleteStream streams the completion, invoking onDelta for each text
	// chunk, and returns the full assembled text.
	CompleteStream(ctx context.Context, req Request, onDelta func(delta string)) (string, error)
}
