package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sbgadvisor/WellNavigator3/internal/classifier"
	"github.com/sbgadvisor/WellNavigator3/internal/dispatcher"
	"github.com/sbgadvisor/WellNavigator3/internal/guides"
	"github.com/sbgadvisor/WellNavigator3/internal/models"
	"github.com/sbgadvisor/WellNavigator3/internal/prompts"
	"github.com/sbgadvisor/WellNavigator3/internal/session"
	"github.com/sbgadvisor/WellNavigator3/internal/storage"
)

// streamEditInterval throttles Telegram message edits while a completion is
// streaming; editing on every delta trips the API rate limit.
const streamEditInterval = 900 * time.Millisecond

type Bot struct {
	api        *tgbotapi.BotAPI
	sessions   *session.Manager
	dispatcher *dispatcher.Dispatcher
	classifier *classifier.Classifier
	store      storage.Storage
	logger     *zap.Logger
}

func New(token string, sessions *session.Manager, d *dispatcher.Dispatcher, clf *classifier.Classifier, store storage.Storage, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:        api,
		sessions:   sessions,
		dispatcher: d,
		classifier: clf,
		store:      store,
		logger:     logger,
	}, nil
}

// Start runs the long-poll update loop. Turns are processed one at a time;
// a chat never has two in-flight turns.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		b.handleMessage(ctx, update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	chatID := message.Chat.ID
	b.logger.Info("incoming message",
		zap.Int64("chat_id", chatID),
		zap.Int("length", len(message.Text)))

	b.recordEvent(ctx, chatID, models.RoleUser, message.Text)

	sess := b.sessions.Get(chatID)

	// Placeholder message edited in place as completion deltas arrive.
	placeholder, err := b.api.Send(tgbotapi.NewMessage(chatID, "…"))
	if err != nil {
		b.logger.Error("failed to send placeholder", zap.Error(err))
		return
	}

	var streamed strings.Builder
	lastEdit := time.Now()
	onDelta := func(delta string) {
		streamed.WriteString(delta)
		if time.Since(lastEdit) < streamEditInterval {
			return
		}
		lastEdit = time.Now()
		edit := tgbotapi.NewEditMessageText(chatID, placeholder.MessageID, streamed.String()+" ▌")
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Debug("stream edit failed", zap.Error(err))
		}
	}

	reply := b.dispatcher.HandleTurn(ctx, sess, message.Text, onDelta)

	final := tgbotapi.NewEditMessageText(chatID, placeholder.MessageID, reply)
	if _, err := b.api.Send(final); err != nil {
		b.logger.Error("failed to finalize reply", zap.Error(err))
	}

	b.recordEvent(ctx, chatID, models.RoleAssistant, reply)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	arg := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		b.sendMessage(chatID, prompts.WelcomeMessage)
	case "help":
		b.sendMessage(chatID, helpMessage)
	case "reset":
		b.sessions.Reset(chatID)
		b.sendMessage(chatID, "Conversation cleared. Tell me what's going on. How can I support you today?")
	case "prepare":
		b.sendGuide(chatID, guides.Preparation(arg))
	case "results":
		b.sendGuide(chatID, guides.Results(arg))
	case "resources":
		b.sendGuide(chatID, guides.Resources(arg))
	case "caregiver":
		b.sendGuide(chatID, guides.Caregiver(arg))
	case "suggest":
		b.handleSuggest(chatID)
	case "disclaimer":
		b.sendMessage(chatID, prompts.Disclaimer)
	default:
		b.sendMessage(chatID, "I don't recognize that command. Use /help to see what I can do.")
	}
}

const helpMessage = `Here's how I can help:

Just tell me what's going on and we'll talk it through. I can also book appointments and search for clinical trials when you ask.

Commands:
/start - Introduction and welcome
/reset - Clear our conversation and start fresh
/prepare [general|specialist|follow-up] - Appointment preparation checklist
/results [blood_test|imaging] - Understanding test results
/resources [support_groups|financial|educational] - Find helpful resources
/caregiver [burnout|communication] - Caregiver support
/suggest - Suggest a guide based on our conversation
/disclaimer - What I can and can't do`

// handleSuggest classifies the conversation onto a support track and replies
// with the matching guide.
func (b *Bot) handleSuggest(chatID int64) {
	sess := b.sessions.Get(chatID)

	var lastUser string
	for _, m := range sess.Messages() {
		if m.Role == models.RoleUser {
			lastUser = m.Content
		}
	}
	if lastUser == "" {
		b.sendMessage(chatID, "Tell me a bit about your situation first, then I can suggest where to start.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	track, _ := b.classifier.ClassifyTrack(ctx, lastUser, sess.Recent(4))
	switch track {
	case classifier.TrackAppointment:
		b.sendGuide(chatID, guides.Preparation(""))
	case classifier.TrackResults:
		b.sendGuide(chatID, guides.Results(""))
	case classifier.TrackResources:
		b.sendGuide(chatID, guides.Resources(""))
	case classifier.TrackCaregiver:
		b.sendGuide(chatID, guides.Caregiver(""))
	default:
		b.sendMessage(chatID, "I'm not sure which guide fits best yet. Tell me a little more and we'll figure it out together.")
	}
}

func (b *Bot) sendGuide(chatID int64, g guides.Guide) {
	msg := tgbotapi.NewMessage(chatID, g.Render())
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send guide", zap.Error(err), zap.String("guide", g.Title))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// Notify implements reminder.Notifier.
func (b *Bot) Notify(chatID int64, text string) {
	b.sendMessage(chatID, text)
}

// recordEvent mirrors a turn into the transcript store. Failures are logged
// and never block the turn.
func (b *Bot) recordEvent(ctx context.Context, chatID int64, role, content string) {
	event := storage.Event{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := b.store.AppendEvent(ctx, event); err != nil {
		b.logger.Error("failed to record transcript event",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("role", role))
	}
}
