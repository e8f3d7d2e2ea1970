package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

func TestBuildRequestStandardModel(t *testing.T) {
	req := buildRequest(Request{
		Model:       "gpt-4o-mini",
		Messages:    []models.Message{{Role: models.RoleUser, Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   200,
	})

	assert.Equal(t, float32(0.7), req.Temperature)
	assert.Equal(t, 200, req.MaxTokens)
	assert.Empty(t, req.ReasoningEffort)
	assert.Zero(t, req.MaxCompletionTokens)
}

func TestBuildRequestReasoningModel(t *testing.T) {
	req := buildRequest(Request{
		Model:           "gpt-5",
		Messages:        []models.Message{{Role: models.RoleUser, Content: "hi"}},
		Temperature:     0.7,
		MaxTokens:       200,
		ReasoningEffort: "low",
	})

	assert.Equal(t, "low", req.ReasoningEffort)
	assert.Equal(t, 200, req.MaxCompletionTokens)
	assert.Zero(t, req.Temperature, "reasoning models do not take temperature")
	assert.Zero(t, req.MaxTokens)
}

func TestBuildRequestReasoningModelDefaultEffort(t *testing.T) {
	req := buildRequest(Request{Model: "gpt-5-mini", MaxTokens: 100})

	assert.Equal(t, "medium", req.ReasoningEffort)
}

func TestBuildRequestMessageOrder(t *testing.T) {
	req := buildRequest(Request{
		Model: "gpt-4o-mini",
		Messages: []models.Message{
			SystemMessage("system prompt"),
			UserMessage("question"),
		},
	})

	require.Len(t, req.Messages, 2)
	assert.Equal(t, models.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "system prompt", req.Messages[0].Content)
	assert.Equal(t, models.RoleUser, req.Messages[1].Role)
}
