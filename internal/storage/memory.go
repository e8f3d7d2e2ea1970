package storage

import (
	"context"
	"sync"
	"time"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

// MemoryStorage is the in-process Storage used for local runs and tests.
type MemoryStorage struct {
	mu           sync.RWMutex
	events       map[int64][]Event
	appointments []ChatAppointment
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		events: make(map[int64][]Event),
	}
}

func (s *MemoryStorage) AppendEvent(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ChatID] = append(s.events[event.ChatID], event)
	return nil
}

func (s *MemoryStorage) ListEvents(ctx context.Context, chatID int64) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.events[chatID]
	out := make([]Event, len(events))
	copy(out, events)
	return out, nil
}

func (s *MemoryStorage) SaveAppointment(ctx context.Context, chatID int64, appt models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.appointments {
		if existing.ChatID == chatID && existing.Appointment.ID == appt.ID {
			return nil
		}
	}
	s.appointments = append(s.appointments, ChatAppointment{ChatID: chatID, Appointment: appt})
	return nil
}

func (s *MemoryStorage) ListUpcomingAppointments(ctx context.Context, within time.Duration) ([]ChatAppointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	limit := now.Add(within)

	var out []ChatAppointment
	for _, ca := range s.appointments {
		if ca.Appointment.Date.After(now) && !ca.Appointment.Date.After(limit) {
			out = append(out, ca)
		}
	}
	return out, nil
}

func (s *MemoryStorage) Close() error { return nil }
