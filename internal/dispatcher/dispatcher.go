// Package dispatcher implements the per-turn control loop: for each incoming
// user message it decides whether to resume an offered workflow, trigger a
// new one, or fall through to a plain streamed completion.
package dispatcher

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sbgadvisor/WellNavigator3/internal/llm"
	"github.com/sbgadvisor/WellNavigator3/internal/models"
	"github.com/sbgadvisor/WellNavigator3/internal/prompts"
	"github.com/sbgadvisor/WellNavigator3/internal/session"
	"github.com/sbgadvisor/WellNavigator3/internal/workflow"
)

// Context windows passed to the classifier and to should_trigger checks.
const (
	confirmationWindow = 3
	triggerWindow      = 5
)

// ConfirmationDetector is the slice of the classifier the dispatcher needs
// to resolve an offer/confirmation cycle.
type ConfirmationDetector interface {
	DetectConfirmation(ctx context.Context, message string, recent []models.Message) bool
}

// StreamFunc receives completion deltas as they arrive. It may be nil.
type StreamFunc func(delta string)

type Dispatcher struct {
	llm      llm.Client
	registry *workflow.Registry
	confirm  ConfirmationDetector
	logger   *zap.Logger

	chatModel   string
	temperature float32
	maxTokens   int
}

func New(client llm.Client, registry *workflow.Registry, confirm ConfirmationDetector,
	chatModel string, temperature float32, maxTokens int, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		llm:         client,
		registry:    registry,
		confirm:     confirm,
		logger:      logger,
		chatModel:   chatModel,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// HandleTurn processes one user message and returns the assistant's reply.
// Every failure path resolves to a safe default: the session stays idle, no
// workflow executes, and the user gets a fixed apology. The reply is always
// non-empty and is the exact assistant message appended to the session.
func (d *Dispatcher) HandleTurn(ctx context.Context, sess *session.Session, userText string, onDelta StreamFunc) string {
	sess.AppendUser(userText)

	// 1. An offer is pending: check whether this message confirms it.
	if sess.WorkflowOffered && sess.OfferedWorkflowID != "" {
		if d.confirm.DetectConfirmation(ctx, userText, sess.Recent(confirmationWindow)) {
			offered, ok := d.registry.Get(sess.OfferedWorkflowID)
			sess.ClearOffer()
			if ok {
				return d.runWorkflow(ctx, sess, offered, map[string]string{"intent": "confirmed"})
			}
			d.logger.Warn("offered workflow is not registered", zap.String("workflow_id", sess.OfferedWorkflowID))
		}
	}

	// 2. Direct triggers, in registry precedence order. First high-confidence
	// match wins; later workflows are not consulted this turn.
	for _, w := range d.registry.All() {
		decision := w.ShouldTrigger(ctx, userText, sess.Recent(triggerWindow))
		if decision.ShouldTrigger && decision.Confidence == models.ConfidenceHigh {
			d.logger.Info("workflow triggered",
				zap.String("workflow_id", w.ID()),
				zap.String("reasoning", decision.Reasoning))
			sess.ClearOffer()
			return d.runWorkflow(ctx, sess, w, decision.Context)
		}
	}

	// 3. Plain streamed chat completion.
	return d.streamChat(ctx, sess, onDelta)
}

func (d *Dispatcher) runWorkflow(ctx context.Context, sess *session.Session, w workflow.Workflow, triggerContext map[string]string) string {
	if triggerContext == nil {
		triggerContext = map[string]string{}
	}
	triggerContext["chat_id"] = strconv.FormatInt(sess.ChatID, 10)

	result := w.Execute(ctx, triggerContext)
	if result.Status != models.StatusCompleted || result.Message == "" {
		d.logger.Error("workflow did not complete",
			zap.String("workflow_id", w.ID()),
			zap.String("status", string(result.Status)))
		sess.AppendAssistant(prompts.ApologyMessage)
		return prompts.ApologyMessage
	}

	sess.AppendAssistant(result.Message)
	return result.Message
}

func (d *Dispatcher) streamChat(ctx context.Context, sess *session.Session, onDelta StreamFunc) string {
	messages := make([]models.Message, 0, len(sess.Messages())+1)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: prompts.SystemPrompt})
	messages = append(messages, sess.Messages()...)

	reply, err := d.llm.CompleteStream(ctx, llm.Request{
		Model:       d.chatModel,
		Messages:    messages,
		Temperature: d.temperature,
		MaxTokens:   d.maxTokens,
	}, onDelta)
	if err != nil {
		// Partial text stays out of the transcript so a half-emitted booking
		// offer can never arm the offer flag.
		d.logger.Error("streamed completion failed", zap.Error(err))
		sess.AppendAssistant(prompts.ApologyMessage)
		return prompts.ApologyMessage
	}

	if id, offered := detectWorkflowOffer(reply); offered {
		sess.Offer(id)
	}

	sess.AppendAssistant(reply)
	return reply
}

// detectWorkflowOffer scans a completion for an implicit booking offer: an
// action verb co-occurring with "appointment". A hit arms the
// offer/confirmation cycle for the next turn.
func detectWorkflowOffer(response string) (workflowID string, offered bool) {
	r := strings.ToLower(response)
	if !strings.Contains(r, "appointment") {
		return "", false
	}
	switch {
	case strings.Contains(r, "book"),
		strings.Contains(r, "schedule"),
		strings.Contains(r, "help"),
		strings.Contains(r, "can"):
		return workflow.AppointmentBookingID, true
	}
	return "", false
}
