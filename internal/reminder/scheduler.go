// Package reminder sends appointment reminders on a cron schedule.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sbgadvisor/WellNavigator3/internal/storage"
)

// Notifier delivers a reminder to a chat. Implemented by the Telegram bot.
type Notifier interface {
	Notify(chatID int64, text string)
}

// reminderWindow is how far ahead a reminder run looks for appointments.
const reminderWindow = 24 * time.Hour

type Scheduler struct {
	cron     *cron.Cron
	store    storage.Storage
	notifier Notifier
	logger   *zap.Logger
}

// New builds a scheduler that runs on the given cron expression, e.g.
// "0 9 * * *" for a daily 9am sweep.
func New(store storage.Storage, notifier Notifier, schedule string, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() { s.cron.Stop() }

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	upcoming, err := s.store.ListUpcomingAppointments(ctx, reminderWindow)
	if err != nil {
		s.logger.Error("failed to list upcoming appointments", zap.Error(err))
		return
	}

	for _, ca := range upcoming {
		appt := ca.Appointment
		text := fmt.Sprintf("Reminder: you have an appointment with %s on %s at %s (%s). Appointment ID: %s.",
			appt.Provider, appt.Date.Format("Monday, January 2"), appt.Time, appt.Location, appt.ID)
		s.notifier.Notify(ca.ChatID, text)
		s.logger.Info("sent appointment reminder",
			zap.Int64("chat_id", ca.ChatID),
			zap.String("appointment_id", appt.ID))
	}
}
