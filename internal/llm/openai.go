package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

// reasoningModelPrefix marks models that take reasoning_effort and
// max_completion_tokens instead of temperature and max_tokens.
const reasoningModelPrefix = "gpt-5"

type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAI(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(apiKey)}
}

func NewOpenAIWithBaseURL(apiKey, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(config)}
}

// buildRequest is the single place that knows about the two parameter shapes
// of the provider's model families.
func buildRequest(req Request) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	out := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	}

	if strings.HasPrefix(req.Model, reasoningModelPrefix) {
		effort := req.ReasoningEffort
		if effort == "" {
			effort = "medium"
		}
		out.ReasoningEffort = effort
		out.MaxCompletionTokens = req.MaxTokens
	} else {
		out.Temperature = req.Temperature
		out.MaxTokens = req.MaxTokens
	}
	return out
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := c.client.CreateChatCompletion(ctx, buildRequest(req))
	if err != nil {
		return Response{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.New("chat completion: empty choices")
	}
	return Response{
		Content:          resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

func (c *OpenAIClient) CompleteStream(ctx context.Context, req Request, onDelta func(string)) (string, error) {
	apiReq := buildRequest(req)
	apiReq.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return "", fmt.Errorf("create stream: %w", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("stream recv: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	return sb.String(), nil
}

// Compile-time interface check.
var _ Client = (*OpenAIClient)(nil)

// SystemMessage and UserMessage are small helpers for building prompts.
func SystemMessage(content string) models.Message {
	return models.Message{Role: models.RoleSystem, Content: content}
}

func UserMessage(content string) models.Message {
	return models.Message{Role: models.RoleUser, Content: content}
}
