// Package interview owns the conversation state machine: the ordered
// transcript, the question counter, and the Setup -> Active -> Ending ->
// Feedback lifecycle.
package interview

import (
	"fmt"
	"sync"

	"github.com/voxhire/voxhire/internal/domain"
)

// Apology replaces a placeholder when the collaborator call fails.
// The session stays active; the candidate can answer again.
const Apology = "I'm sorry, I had trouble generating the next question. Could you tell me a bit more about that?"

// Conversation is the single authority over transcript and lifecycle state.
// All mutation goes through its methods; callers get copies.
type Conversation struct {
	mu       sync.Mutex
	state    domain.State
	messages []domain.Message
	session  domain.Session
	report   *domain.Report
}

// New creates a conversation in the Setup state.
func New() *Conversation {
	return &Conversation{state: domain.StateSetup}
}

// State returns the current lifecycle phase.
func (c *Conversation) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a snapshot of the transcript in turn order.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Session returns a copy of the session record.
func (c *Conversation) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Report returns the end-of-session report, or nil before Feedback.
func (c *Conversation) Report() *domain.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// Begin moves Setup -> Active with the collaborator's welcome and first
// question. It is only valid in Setup; a failed collaborator call must keep
// the caller from ever invoking it, so the state cannot leave Setup.
func (c *Conversation) Begin(candidate domain.Candidate, questionTotal int, welcome, firstQuestion string) (domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateSetup {
		return domain.Message{}, fmt.Errorf("cannot begin interview from state %q", c.state)
	}

	c.session = domain.Session{
		Active:        true,
		QuestionTotal: questionTotal,
		Candidate:     candidate,
	}
	c.messages = c.messages[:0]
	c.report = nil

	text := welcome
	if firstQuestion != "" {
		text = welcome + " " + firstQuestion
	}
	opening := domain.NewMessage(domain.SenderAI, text)
	c.messages = append(c.messages, opening)
	c.session.StartedAt = opening.Timestamp
	c.state = domain.StateActive

	return opening, nil
}

// AppendUser appends an accepted user answer. Valid only while Active.
func (c *Conversation) AppendUser(text string) (domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateActive {
		return domain.Message{}, fmt.Errorf("cannot accept answers in state %q", c.state)
	}
	m := domain.NewMessage(domain.SenderUser, text)
	c.messages = append(c.messages, m)
	return m, nil
}

// AppendPlaceholder appends the provisional "thinking" entry that will be
// replaced when the collaborator responds.
func (c *Conversation) AppendPlaceholder() (domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateActive {
		return domain.Message{}, fmt.Errorf("cannot append placeholder in state %q", c.state)
	}
	m := domain.NewLoadingMessage()
	c.messages = append(c.messages, m)
	return m, nil
}

// ResolvePlaceholder replaces the placeholder slot with the resolved
// question text under a fresh ID and increments the question counter.
func (c *Conversation) ResolvePlaceholder(placeholderID, text string) (domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, err := c.placeholderIndex(placeholderID)
	if err != nil {
		return domain.Message{}, err
	}
	resolved := domain.NewMessage(domain.SenderAI, text)
	c.messages[i] = resolved
	c.session.QuestionNumber++
	return resolved, nil
}

// FailPlaceholder replaces the placeholder slot with the fixed apology.
// The question counter does not move and the session stays Active.
func (c *Conversation) FailPlaceholder(placeholderID string) (domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, err := c.placeholderIndex(placeholderID)
	if err != nil {
		return domain.Message{}, err
	}
	apology := domain.NewMessage(domain.SenderAI, Apology)
	c.messages[i] = apology
	return apology, nil
}

func (c *Conversation) placeholderIndex(id string) (int, error) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			if !c.messages[i].Loading {
				return 0, fmt.Errorf("message %s is not a placeholder", id)
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("placeholder %s not found", id)
}

// MarkNarrated flags a message as handed to playback. It returns false when
// the message was already narrated (or does not exist), so narration fires
// at most once per message ID even under re-delivery.
func (c *Conversation) MarkNarrated(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			if c.messages[i].Narrated {
				return false
			}
			c.messages[i].Narrated = true
			return true
		}
	}
	return false
}

// NewestAI returns the most recent resolved AI message.
func (c *Conversation) NewestAI() (domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Sender == domain.SenderAI && !c.messages[i].Loading {
			return c.messages[i], true
		}
	}
	return domain.Message{}, false
}

// BeginEnding moves Active -> Ending when the candidate finishes the
// interview and the feedback calls are about to be made.
func (c *Conversation) BeginEnding() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateActive {
		return fmt.Errorf("cannot end interview from state %q", c.state)
	}
	c.state = domain.StateEnding
	return nil
}

// CompleteFeedback moves Ending -> Feedback with whatever results were
// obtained. A nil dashboard (analytics failure) is acceptable: Feedback is
// reached on the feedback text alone.
func (c *Conversation) CompleteFeedback(report *domain.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateEnding {
		return fmt.Errorf("cannot complete feedback from state %q", c.state)
	}
	c.report = report
	c.session.Active = false
	c.session.QuestionNumber = 0
	c.state = domain.StateFeedback
	return nil
}

// Restart tears everything down and returns to Setup.
func (c *Conversation) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Reset()
	c.messages = nil
	c.report = nil
	c.state = domain.StateSetup
}
