package session

import (
	"sync"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

// Session holds the mutable state of one conversation: the append-only
// message history plus the pending workflow offer, if any. A session is only
// touched by the turn currently being processed for its chat, so it carries
// no lock of its own.
type Session struct {
	ChatID            int64
	OfferedWorkflowID string
	WorkflowOffered   bool

	messages []models.Message
}

func (s *Session) AppendUser(content string) {
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: content})
}

func (s *Session) AppendAssistant(content string) {
	s.messages = append(s.messages, models.Message{Role: models.RoleAssistant, Content: content})
}

// Messages returns a copy of the full history in turn order.
func (s *Session) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Recent returns the last n messages (or fewer if the history is shorter).
func (s *Session) Recent(n int) []models.Message {
	if n <= 0 || len(s.messages) == 0 {
		return nil
	}
	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.Message, len(s.messages)-start)
	copy(out, s.messages[start:])
	return out
}

// Offer arms the pending-offer flag. At most one workflow can be offered at a
// time; a new offer replaces the previous one.
func (s *Session) Offer(workflowID string) {
	s.OfferedWorkflowID = workflowID
	s.WorkflowOffered = true
}

func (s *Session) ClearOffer() {
	s.OfferedWorkflowID = ""
	s.WorkflowOffered = false
}

// Manager owns all live sessions, keyed by chat ID. Telegram delivers
// updates for distinct chats concurrently, so access is guarded.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// Get returns the session for a chat, creating it on first use.
func (m *Manager) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = &Session{ChatID: chatID}
		m.sessions[chatID] = s
	}
	return s
}

// Reset discards all state for a chat. The next Get starts a fresh session.
func (m *Manager) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}
