package dispatcher

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sbgadvisor/WellNavigator3/internal/llm"
	"github.com/sbgadvisor/WellNavigator3/internal/models"
	"github.com/sbgadvisor/WellNavigator3/internal/prompts"
	"github.com/sbgadvisor/WellNavigator3/internal/session"
	"github.com/sbgadvisor/WellNavigator3/internal/workflow"
)

type fakeLLM struct {
	streamReply string
	streamErr   error
	calls       int
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.calls++
	return llm.Response{Content: f.streamReply}, nil
}

func (f *fakeLLM) CompleteStream(ctx context.Context, req llm.Request, onDelta func(string)) (string, error) {
	f.calls++
	if f.streamErr != nil {
		if onDelta != nil {
			onDelta("partial text the user already saw")
		}
		return "", f.streamErr
	}
	if onDelta != nil {
		onDelta(f.streamReply)
	}
	return f.streamReply, nil
}

type stubConfirm struct{ confirmed bool }

func (s stubConfirm) DetectConfirmation(ctx context.Context, message string, recent []models.Message) bool {
	return s.confirmed
}

// stubWorkflow scripts a trigger decision and counts executions.
type stubWorkflow struct {
	id            string
	decision      models.TriggerDecision
	result        models.WorkflowResult
	triggerChecks int
	executions    int
}

func (s *stubWorkflow) ID() string   { return s.id }
func (s *stubWorkflow) Name() string { return s.id }

func (s *stubWorkflow) ShouldTrigger(ctx context.Context, userMessage string, recent []models.Message) models.TriggerDecision {
	s.triggerChecks++
	return s.decision
}

func (s *stubWorkflow) Execute(ctx context.Context, triggerContext map[string]string) models.WorkflowResult {
	s.executions++
	return s.result
}

func highTrigger() models.TriggerDecision {
	return models.TriggerDecision{ShouldTrigger: true, Confidence: models.ConfidenceHigh}
}

func lowTrigger() models.TriggerDecision {
	return models.TriggerDecision{ShouldTrigger: false, Confidence: models.ConfidenceLow}
}

func completed(msg string) models.WorkflowResult {
	return models.WorkflowResult{Status: models.StatusCompleted, Message: msg}
}

func newDispatcher(client llm.Client, reg *workflow.Registry, confirm ConfirmationDetector) *Dispatcher {
	return New(client, reg, confirm, "gpt-4o-mini", 0.7, 1024, zap.NewNop())
}

func TestIdleTurnNeverExecutesWorkflows(t *testing.T) {
	w1 := &stubWorkflow{id: "a", decision: lowTrigger()}
	w2 := &stubWorkflow{id: "b", decision: lowTrigger()}
	fake := &fakeLLM{streamReply: "That sounds really hard. How are you feeling about it?"}

	d := newDispatcher(fake, workflow.NewRegistry(w1, w2), stubConfirm{})
	sess := &session.Session{ChatID: 1}

	reply := d.HandleTurn(context.Background(), sess, "I have a headache and I'm worried", nil)

	assert.Equal(t, fake.streamReply, reply)
	assert.Zero(t, w1.executions)
	assert.Zero(t, w2.executions)
	assert.False(t, sess.WorkflowOffered)

	msgs := sess.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestRegistryOrderIsTriggerPrecedence(t *testing.T) {
	first := &stubWorkflow{id: "first", decision: highTrigger(), result: completed("first ran")}
	second := &stubWorkflow{id: "second", decision: highTrigger(), result: completed("second ran")}
	fake := &fakeLLM{}

	d := newDispatcher(fake, workflow.NewRegistry(first, second), stubConfirm{})
	sess := &session.Session{ChatID: 1}

	reply := d.HandleTurn(context.Background(), sess, "trigger both", nil)

	assert.Equal(t, "first ran", reply)
	assert.Equal(t, 1, first.executions)
	assert.Zero(t, second.executions)
	assert.Zero(t, second.triggerChecks, "later workflows are not consulted once one wins")
	assert.Zero(t, fake.calls, "no completion on a workflow turn")
}

func TestConfirmationExecutesOfferedWorkflow(t *testing.T) {
	booking := &stubWorkflow{id: "appointment_booking", decision: lowTrigger(), result: completed("booked!")}

	d := newDispatcher(&fakeLLM{}, workflow.NewRegistry(booking), stubConfirm{confirmed: true})
	sess := &session.Session{ChatID: 1}
	sess.AppendAssistant("I can help you book an appointment if you'd like.")
	sess.Offer("appointment_booking")

	reply := d.HandleTurn(context.Background(), sess, "yes", nil)

	assert.Equal(t, "booked!", reply)
	assert.Equal(t, 1, booking.executions)
	assert.False(t, sess.WorkflowOffered, "offer cleared after execution")
	assert.Empty(t, sess.OfferedWorkflowID)
}

func TestYesWithoutOfferDoesNotExecute(t *testing.T) {
	booking := &stubWorkflow{id: "appointment_booking", decision: lowTrigger(), result: completed("booked!")}
	fake := &fakeLLM{streamReply: "Glad that helps. Anything else on your mind?"}

	// Classifier would confirm, but no offer is armed, so confirmation is
	// never consulted.
	d := newDispatcher(fake, workflow.NewRegistry(booking), stubConfirm{confirmed: true})
	sess := &session.Session{ChatID: 1}
	sess.AppendAssistant("Here's how to prepare for your appointment: bring your records.")

	reply := d.HandleTurn(context.Background(), sess, "yes", nil)

	assert.Equal(t, fake.streamReply, reply)
	assert.Zero(t, booking.executions)
}

func TestUnconfirmedOfferFallsThrough(t *testing.T) {
	booking := &stubWorkflow{id: "appointment_booking", decision: lowTrigger(), result: completed("booked!")}
	fake := &fakeLLM{streamReply: "No problem, we can talk about something else."}

	d := newDispatcher(fake, workflow.NewRegistry(booking), stubConfirm{confirmed: false})
	sess := &session.Session{ChatID: 1}
	sess.Offer("appointment_booking")

	reply := d.HandleTurn(context.Background(), sess, "actually, tell me about my test results", nil)

	assert.Equal(t, fake.streamReply, reply)
	assert.Zero(t, booking.executions)
}

func TestImplicitOfferArmsNextTurn(t *testing.T) {
	booking := &stubWorkflow{id: workflow.AppointmentBookingID, decision: lowTrigger()}
	fake := &fakeLLM{streamReply: "If you'd like, I can help you book an appointment with a specialist."}

	d := newDispatcher(fake, workflow.NewRegistry(booking), stubConfirm{})
	sess := &session.Session{ChatID: 1}

	d.HandleTurn(context.Background(), sess, "my knee has been hurting for weeks", nil)

	assert.True(t, sess.WorkflowOffered)
	assert.Equal(t, workflow.AppointmentBookingID, sess.OfferedWorkflowID)
}

func TestPlainReplyDoesNotArmOffer(t *testing.T) {
	fake := &fakeLLM{streamReply: "That sounds painful. When did it start?"}

	d := newDispatcher(fake, workflow.NewRegistry(), stubConfirm{})
	sess := &session.Session{ChatID: 1}

	d.HandleTurn(context.Background(), sess, "my knee has been hurting", nil)

	assert.False(t, sess.WorkflowOffered)
}

func TestStreamFailureKeepsPartialOutOfTranscript(t *testing.T) {
	fake := &fakeLLM{streamErr: errors.New("connection reset")}

	d := newDispatcher(fake, workflow.NewRegistry(), stubConfirm{})
	sess := &session.Session{ChatID: 1}

	var streamed string
	reply := d.HandleTurn(context.Background(), sess, "hello", func(delta string) { streamed += delta })

	assert.Equal(t, prompts.ApologyMessage, reply)
	assert.NotEmpty(t, streamed, "user saw partial output before the failure")
	assert.False(t, sess.WorkflowOffered)

	msgs := sess.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, prompts.ApologyMessage, msgs[1].Content, "partial text must not be persisted")
}

func TestWorkflowErrorResolvesToApology(t *testing.T) {
	broken := &stubWorkflow{
		id:       "broken",
		decision: highTrigger(),
		result:   models.WorkflowResult{Status: models.StatusError},
	}

	d := newDispatcher(&fakeLLM{}, workflow.NewRegistry(broken), stubConfirm{})
	sess := &session.Session{ChatID: 1}

	reply := d.HandleTurn(context.Background(), sess, "trigger it", nil)

	assert.Equal(t, prompts.ApologyMessage, reply)
}

// alwaysBookingIntent stands in for the LLM-backed classifier in the
// end-to-end scenario.
type alwaysBookingIntent struct{}

func (alwaysBookingIntent) ClassifyBookingIntent(ctx context.Context, message string, recent []models.Message) models.TriggerDecision {
	return models.TriggerDecision{
		ShouldTrigger: true,
		Confidence:    models.ConfidenceHigh,
		Reasoning:     "stubbed booking intent",
		Context:       map[string]string{"intent": "booking"},
	}
}

type neverBookingIntent struct{}

func (neverBookingIntent) ClassifyBookingIntent(ctx context.Context, message string, recent []models.Message) models.TriggerDecision {
	return models.TriggerDecision{ShouldTrigger: false, Confidence: models.ConfidenceLow}
}

func TestEndToEndBookingScenario(t *testing.T) {
	fake := &fakeLLM{streamReply: "I'm sorry to hear that. What worries you most right now?"}

	// First turn: classifier sees no booking intent, plain chat.
	reg := workflow.NewRegistry(
		workflow.NewAppointmentBooking(neverBookingIntent{}, nil, zap.NewNop()),
		workflow.NewClinicalTrialSearch(),
	)
	d := newDispatcher(fake, reg, stubConfirm{})
	sess := &session.Session{ChatID: 42}

	reply := d.HandleTurn(context.Background(), sess, "I have a headache and I'm worried", nil)
	assert.Equal(t, fake.streamReply, reply)

	// Second turn: classifier returns high-confidence booking intent.
	reg2 := workflow.NewRegistry(
		workflow.NewAppointmentBooking(alwaysBookingIntent{}, nil, zap.NewNop()),
		workflow.NewClinicalTrialSearch(),
	)
	d2 := New(fake, reg2, stubConfirm{}, "gpt-4o-mini", 0.7, 1024, zap.NewNop())

	reply2 := d2.HandleTurn(context.Background(), sess, "Can you help me book an appointment?", nil)

	apptID := regexp.MustCompile(`APT-\d{8}-\d{3}`)
	assert.Regexp(t, apptID, reply2)

	// Exactly one execution: the booking message appears once in history.
	var bookings int
	for _, m := range sess.Messages() {
		if m.Role == models.RoleAssistant && apptID.MatchString(m.Content) {
			bookings++
		}
	}
	assert.Equal(t, 1, bookings)
}
