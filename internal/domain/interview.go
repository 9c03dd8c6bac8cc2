// Package domain defines the canonical types shared by the interview
// orchestrator, the collaborator client, and the backend service.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Role returns the wire-format role for the collaborator API.
// The collaborator speaks in user/assistant terms.
func (s Sender) Role() string {
	if s == SenderAI {
		return "assistant"
	}
	return "user"
}

// Message is one entry in the interview transcript.
//
// A message is immutable once created, with one exception: a loading
// placeholder is replaced in its slot by a resolved message that carries a
// fresh ID. An ID is never reused for different content.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Loading marks a provisional "thinking" entry awaiting the
	// collaborator's response.
	Loading bool `json:"loading,omitempty"`

	// Narrated records that this message has already been handed to the
	// playback pipeline. Narration fires at most once per message ID.
	Narrated bool `json:"narrated,omitempty"`
}

// NewMessage creates a resolved message with a fresh ID.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}

// NewLoadingMessage creates a placeholder entry for a pending AI response.
func NewLoadingMessage() Message {
	m := NewMessage(SenderAI, "Thinking...")
	m.Loading = true
	return m
}

// Candidate is the opaque context blob describing who is being interviewed.
// It is forwarded to the collaborator verbatim and never interpreted here.
type Candidate struct {
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	Experience string `json:"experience,omitempty"`
	Resume     string `json:"resume,omitempty"`
}

// IsZero reports whether no candidate context has been captured.
func (c Candidate) IsZero() bool {
	return c == Candidate{}
}

// Session tracks one interview run.
type Session struct {
	Active         bool      `json:"active"`
	QuestionNumber int       `json:"question_number"`
	QuestionTotal  int       `json:"question_total"`
	Candidate      Candidate `json:"candidate"`
	StartedAt      time.Time `json:"started_at,omitempty"`
}

// Reset tears the session down to its zero state.
func (s *Session) Reset() {
	*s = Session{}
}

// State is the lifecycle phase of the conversation.
type State string

const (
	// StateSetup is the initial phase: no session, candidate unknown.
	StateSetup State = "setup"
	// StateActive means a session is running and turns are exchanged.
	StateActive State = "active"
	// StateEnding means feedback and analytics have been requested.
	StateEnding State = "ending"
	// StateFeedback is the terminal display phase. A full restart
	// returns to StateSetup.
	StateFeedback State = "feedback"
)

// TranscriptText renders a transcript in the collaborator's prompt format.
func TranscriptText(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Loading {
			continue
		}
		if m.Sender == SenderUser {
			b.WriteString("CANDIDATE: ")
		} else {
			b.WriteString("INTERVIEWER: ")
		}
		b.WriteString(m.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
