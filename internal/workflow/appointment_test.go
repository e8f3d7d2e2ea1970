package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

type fixedIntent struct{ decision models.TriggerDecision }

func (f fixedIntent) ClassifyBookingIntent(ctx context.Context, message string, recent []models.Message) models.TriggerDecision {
	return f.decision
}

func TestAppointmentExecuteIsDeterministic(t *testing.T) {
	w := NewAppointmentBooking(fixedIntent{}, nil, zap.NewNop())
	w.now = func() time.Time { return time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC) }

	first := w.Execute(context.Background(), nil)
	second := w.Execute(context.Background(), nil)

	assert.Equal(t, first, second, "no hidden randomness in the booking record")
}

func TestAppointmentRecordShape(t *testing.T) {
	w := NewAppointmentBooking(fixedIntent{}, nil, zap.NewNop())
	w.now = func() time.Time { return time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC) }

	result := w.Execute(context.Background(), map[string]string{"intent": "confirmed"})

	require.Equal(t, models.StatusCompleted, result.Status)
	require.NotEmpty(t, result.Message)

	appt, ok := result.Result.(models.Appointment)
	require.True(t, ok)

	// Booked a week out from the injected clock.
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), appt.Date)
	assert.Equal(t, "APT-20240115-001", appt.ID)
	assert.Equal(t, "Dr. Sarah Johnson", appt.Provider)
	assert.Contains(t, result.Message, appt.ID)
}

func TestAppointmentShouldTriggerDelegatesToClassifier(t *testing.T) {
	decision := models.TriggerDecision{
		ShouldTrigger: true,
		Confidence:    models.ConfidenceHigh,
		Context:       map[string]string{"intent": "booking"},
	}
	w := NewAppointmentBooking(fixedIntent{decision: decision}, nil, zap.NewNop())

	got := w.ShouldTrigger(context.Background(), "book me in", nil)

	assert.Equal(t, decision, got)
}

type failingStore struct{}

func (failingStore) SaveAppointment(ctx context.Context, chatID int64, appt models.Appointment) error {
	return assert.AnError
}

func TestAppointmentPersistenceFailureDoesNotFailBooking(t *testing.T) {
	w := NewAppointmentBooking(fixedIntent{}, failingStore{}, zap.NewNop())

	result := w.Execute(context.Background(), map[string]string{"chat_id": "7"})

	assert.Equal(t, models.StatusCompleted, result.Status)
	assert.NotEmpty(t, result.Message)
}
