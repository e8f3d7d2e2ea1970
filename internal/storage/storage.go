package storage

import (
	"context"
	"time"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

// Event mirrors one transcript message for offline review. Events are
// appended in chronological order and never updated.
type Event struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Storage persists transcripts and booked appointments. Implementations must
// be safe for concurrent use. Storage failures are logged by callers and
// never block a chat turn.
type Storage interface {
	AppendEvent(ctx context.Context, event Event) error
	ListEvents(ctx context.Context, chatID int64) ([]Event, error)

	SaveAppointment(ctx context.Context, chatID int64, appt models.Appointment) error
	// ListUpcomingAppointments returns appointments whose date falls within
	// the given window from now, with the owning chat ID.
	ListUpcomingAppointments(ctx context.Context, within time.Duration) ([]ChatAppointment, error)

	Close() error
}

// ChatAppointment pairs an appointment with the chat that booked it.
type ChatAppointment struct {
	ChatID      int64
	Appointment models.Appointment
}
