package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sbgadvisor/WellNavigator3/internal/llm"
	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

// confirmationKeywords is the cheap prefilter vocabulary. A message that
// contains none of these is never a confirmation, and no network call is
// made for it.
var confirmationKeywords = []string{
	"yes", "yeah", "yep", "sure", "okay", "ok", "sounds good",
	"that works", "let's do it", "let's do that", "i'd like that",
	"please", "that would be great", "sounds great",
}

// bookingKeywords prefilter messages before the booking-intent LLM call.
var bookingKeywords = []string{
	"book", "schedule", "appointment", "see a doctor", "see the doctor",
}

// Classifier combines a fast keyword test with a confirming LLM call.
//
// Failure policy: every transport or parse failure is converted into a
// negative, low-confidence decision. A workflow must never execute because
// the classifier was unreachable.
type Classifier struct {
	client llm.Client
	model  string
	logger *zap.Logger
}

func New(client llm.Client, model string, logger *zap.Logger) *Classifier {
	return &Classifier{
		client: client,
		model:  model,
		logger: logger,
	}
}

// DetectConfirmation reports whether the user's message confirms a
// previously offered action. Step one is keyword containment; step two is a
// single LLM call constrained to answer "yes" or "no".
func (c *Classifier) DetectConfirmation(ctx context.Context, message string, recent []models.Message) bool {
	if !containsAny(strings.ToLower(message), confirmationKeywords) {
		return false
	}

	prompt := fmt.Sprintf(`User message: %q

Previous conversation context suggests the assistant just offered to help with something (like booking an appointment).

Recent conversation:
%s

Does the user's message indicate they are confirming/agreeing to proceed with the offered action?
Respond with only "yes" or "no".`, message, summarizeHistory(recent))

	resp, err := c.client.Complete(ctx, llm.Request{
		Model: c.model,
		Messages: []models.Message{
			llm.SystemMessage(`You are a confirmation detector. Respond with only "yes" or "no".`),
			llm.UserMessage(prompt),
		},
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		c.logger.Warn("confirmation check failed, assuming not confirmed", zap.Error(err))
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Content))
	return answer == "yes"
}

// bookingIntentReply is the strict JSON schema the booking-intent prompt
// asks the model to produce.
type bookingIntentReply struct {
	ShouldTrigger bool   `json:"should_trigger"`
	Confidence    string `json:"confidence"`
	Reasoning     string `json:"reasoning"`
}

// ClassifyBookingIntent decides whether the user wants to BOOK a new
// appointment, as opposed to preparing for or asking about one. The prompt
// enumerates both positive and negative exemplars because naive keyword
// matching ("appointment" + "help") false-positives on preparation requests.
func (c *Classifier) ClassifyBookingIntent(ctx context.Context, message string, recent []models.Message) models.TriggerDecision {
	if !containsAny(strings.ToLower(message), bookingKeywords) {
		return models.TriggerDecision{
			ShouldTrigger: false,
			Confidence:    models.ConfidenceLow,
			Reasoning:     "no booking vocabulary in message",
		}
	}

	prompt := fmt.Sprintf(`You are an intent classifier for a healthcare chatbot. Determine if the user wants to BOOK/SCHEDULE a new appointment.

User's latest message: %q

Recent conversation context:
%s

IMPORTANT: Only return true if the user explicitly wants to BOOK or SCHEDULE a new appointment.

Pay special attention to phrases like "help me make/book/schedule" - these ARE booking requests and should return true.

Return false if:
- User is asking how to PREPARE for an appointment (already scheduled)
- User is asking ABOUT an appointment (questions, concerns, what to expect)
- User is asking to UNDERSTAND something about an appointment
- User mentions appointments in general without wanting to book
- User is discussing a past or existing appointment

Examples that should return true:
- "I need to book an appointment"
- "Can you schedule me an appointment?"
- "I want to see a doctor"
- "Can you help me make an appointment?"
- "Help me schedule an appointment"
- "Can you help with booking?"

Examples that should return false:
- "I'm not sure how to prepare for that appointment"
- "What should I bring to my appointment?"
- "I have questions about my appointment"
- "I'm nervous about my appointment"
- "Help me prepare for my appointment"

Respond ONLY with valid JSON in this exact format:
{"should_trigger": true or false, "confidence": "high" or "medium" or "low", "reasoning": "brief explanation"}`,
		message, summarizeHistory(recent))

	resp, err := c.client.Complete(ctx, llm.Request{
		Model: c.model,
		Messages: []models.Message{
			llm.SystemMessage("You are an intent classifier. Respond only with valid JSON. Be strict - only return true for explicit booking requests."),
			llm.UserMessage(prompt),
		},
		Temperature:     0.2,
		MaxTokens:       200,
		ReasoningEffort: "low",
	})
	if err != nil {
		c.logger.Warn("booking intent check failed", zap.Error(err))
		return models.TriggerDecision{
			ShouldTrigger: false,
			Confidence:    models.ConfidenceLow,
			Reasoning:     "classifier call failed",
		}
	}

	var reply bookingIntentReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Content)), &reply); err != nil {
		c.logger.Warn("booking intent reply was not valid JSON",
			zap.Error(err),
			zap.String("response", resp.Content))
		return models.TriggerDecision{
			ShouldTrigger: false,
			Confidence:    models.ConfidenceLow,
			Reasoning:     "classifier reply malformed",
		}
	}

	// Only a confident positive from the model counts as a trigger.
	if reply.ShouldTrigger && reply.Confidence == string(models.ConfidenceHigh) {
		return models.TriggerDecision{
			ShouldTrigger: true,
			Confidence:    models.ConfidenceHigh,
			Reasoning:     reply.Reasoning,
			Context:       map[string]string{"intent": "booking"},
		}
	}

	return models.TriggerDecision{
		ShouldTrigger: false,
		Confidence:    parseConfidence(reply.Confidence),
		Reasoning:     reply.Reasoning,
	}
}

// Track identifies which kind of help a turn is asking for.
type Track string

const (
	TrackAppointment Track = "appointment"
	TrackResults     Track = "results"
	TrackResources   Track = "resources"
	TrackCaregiver   Track = "caregiver"
	TrackGeneral     Track = "general"
)

type trackReply struct {
	Track      string `json:"track"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// ClassifyTrack maps a user turn onto one of the support tracks so the bot
// can suggest the right guide. Falls back to the general track on any
// failure.
func (c *Classifier) ClassifyTrack(ctx context.Context, message string, recent []models.Message) (Track, models.Confidence) {
	prompt := fmt.Sprintf(`Based on this conversation, determine what kind of help the user needs most:

User's latest message: %q

Conversation context:
%s

Determine which track fits best:
1. "appointment" - User needs help preparing for or booking appointments
2. "results" - User needs help understanding test results or medical information
3. "resources" - User needs to find resources, support groups, or services
4. "caregiver" - User needs caregiver support or advice
5. "general" - General health navigation or unclear

Respond ONLY with valid JSON in this exact format:
{"track": "appointment|results|resources|caregiver|general", "confidence": "high|medium|low", "reasoning": "brief explanation"}`,
		message, summarizeHistory(recent))

	resp, err := c.client.Complete(ctx, llm.Request{
		Model: c.model,
		Messages: []models.Message{
			llm.SystemMessage("You are a healthcare intent classifier. Respond only with valid JSON."),
			llm.UserMessage(prompt),
		},
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		c.logger.Warn("track classification failed", zap.Error(err))
		return TrackGeneral, models.ConfidenceLow
	}

	var reply trackReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Content)), &reply); err != nil {
		c.logger.Warn("track reply was not valid JSON", zap.String("response", resp.Content))
		return TrackGeneral, models.ConfidenceLow
	}

	switch Track(reply.Track) {
	case TrackAppointment, TrackResults, TrackResources, TrackCaregiver:
		return Track(reply.Track), parseConfidence(reply.Confidence)
	default:
		return TrackGeneral, parseConfidence(reply.Confidence)
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func parseConfidence(s string) models.Confidence {
	switch models.Confidence(s) {
	case models.ConfidenceHigh, models.ConfidenceMedium:
		return models.Confidence(s)
	default:
		return models.ConfidenceLow
	}
}

// summarizeHistory renders the last few turns as role-prefixed lines, each
// clipped so the classifier prompt stays small.
func summarizeHistory(recent []models.Message) string {
	const clip = 150
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		content := m.Content
		if len(content) > clip {
			content = content[:clip]
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, content))
	}
	if len(lines) == 0 {
		return "(no prior context)"
	}
	return strings.Join(lines, "\n")
}
