package models

import (
	"fmt"
	"time"
)

// Message roles as used on the OpenAI chat API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one turn of dialogue. Messages are immutable once
// appended to a session.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Confidence is the categorical judgment gating workflow execution.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// TriggerDecision is the output of evaluating whether a workflow should run
// for the current user message.
type TriggerDecision struct {
	ShouldTrigger bool              `json:"should_trigger"`
	Confidence    Confidence        `json:"confidence"`
	Reasoning     string            `json:"reasoning"`
	Context       map[string]string `json:"context,omitempty"`
}

// WorkflowStatus describes how a workflow run ended.
type WorkflowStatus string

const (
	StatusCompleted WorkflowStatus = "completed"
	StatusCancelled WorkflowStatus = "cancelled"
	StatusError     WorkflowStatus = "error"
)

// WorkflowResult is produced once per workflow execution. Message is the
// natural-language summary inserted into the dialogue transcript.
type WorkflowResult struct {
	Status  WorkflowStatus `json:"status"`
	Result  any            `json:"result,omitempty"`
	Message string         `json:"message"`
}

// Appointment is a booked (synthetic) appointment record.
type Appointment struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	Provider string    `json:"provider"`
	Location string    `json:"location"`
	Type     string    `json:"type"`
}

// AppointmentID formats an appointment identifier for a given date and
// sequence number, e.g. APT-20240115-001.
func AppointmentID(date time.Time, seq int) string {
	return fmt.Sprintf("APT-%s-%03d", date.Format("20060102"), seq)
}

// ClinicalTrial is one entry in a trial search result set.
type ClinicalTrial struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Focus       string `json:"focus"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Eligibility string `json:"eligibility"`
	Link        string `json:"link"`
}
