package interview

import (
	"testing"

	"github.com/voxhire/voxhire/internal/domain"
)

func TestBegin(t *testing.T) {
	t.Run("moves setup to active with combined opening", func(t *testing.T) {
		c := New()

		opening, err := c.Begin(domain.Candidate{Name: "Priya"}, 5, "Welcome!", "Tell me about yourself.")
		if err != nil {
			t.Fatalf("Begin() error = %v", err)
		}

		if c.State() != domain.StateActive {
			t.Errorf("State() = %v, want %v", c.State(), domain.StateActive)
		}
		if want := "Welcome! Tell me about yourself."; opening.Text != want {
			t.Errorf("opening text = %q, want %q", opening.Text, want)
		}
		if opening.Sender != domain.SenderAI {
			t.Errorf("opening sender = %v, want %v", opening.Sender, domain.SenderAI)
		}

		session := c.Session()
		if !session.Active {
			t.Error("session should be active")
		}
		if session.QuestionNumber != 0 {
			t.Errorf("QuestionNumber = %d, want 0 before first answered turn", session.QuestionNumber)
		}
		if session.QuestionTotal != 5 {
			t.Errorf("QuestionTotal = %d, want 5", session.QuestionTotal)
		}
	})

	t.Run("rejected outside setup", func(t *testing.T) {
		c := New()
		if _, err := c.Begin(domain.Candidate{}, 5, "w", "q"); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if _, err := c.Begin(domain.Candidate{}, 5, "w", "q"); err == nil {
			t.Error("second Begin() should fail while active")
		}
	})
}

func TestAppendUser(t *testing.T) {
	c := New()

	if _, err := c.AppendUser("hello"); err == nil {
		t.Error("AppendUser() should fail in setup")
	}

	mustBegin(t, c)
	m, err := c.AppendUser("my answer")
	if err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	if m.Sender != domain.SenderUser {
		t.Errorf("sender = %v, want %v", m.Sender, domain.SenderUser)
	}
	if got := len(c.Messages()); got != 2 {
		t.Errorf("message count = %d, want 2", got)
	}
}

func TestPlaceholderLifecycle(t *testing.T) {
	t.Run("resolve replaces slot and advances counter", func(t *testing.T) {
		c := New()
		mustBegin(t, c)
		c.AppendUser("answer one")

		ph, err := c.AppendPlaceholder()
		if err != nil {
			t.Fatalf("AppendPlaceholder() error = %v", err)
		}
		if !ph.Loading {
			t.Error("placeholder should be loading")
		}

		resolved, err := c.ResolvePlaceholder(ph.ID, "Next question?")
		if err != nil {
			t.Fatalf("ResolvePlaceholder() error = %v", err)
		}
		if resolved.ID == ph.ID {
			t.Error("resolved message should carry a fresh ID")
		}
		if resolved.Loading {
			t.Error("resolved message should not be loading")
		}

		msgs := c.Messages()
		if got := len(msgs); got != 3 {
			t.Fatalf("message count = %d, want 3 (replace, not append)", got)
		}
		if msgs[2].Text != "Next question?" {
			t.Errorf("slot text = %q, want %q", msgs[2].Text, "Next question?")
		}
		if got := c.Session().QuestionNumber; got != 1 {
			t.Errorf("QuestionNumber = %d, want 1", got)
		}
	})

	t.Run("fail replaces slot with apology, counter unchanged", func(t *testing.T) {
		c := New()
		mustBegin(t, c)
		c.AppendUser("answer")
		ph, _ := c.AppendPlaceholder()

		apology, err := c.FailPlaceholder(ph.ID)
		if err != nil {
			t.Fatalf("FailPlaceholder() error = %v", err)
		}
		if apology.Text != Apology {
			t.Errorf("apology text = %q, want %q", apology.Text, Apology)
		}
		if got := c.Session().QuestionNumber; got != 0 {
			t.Errorf("QuestionNumber = %d, want 0 after failure", got)
		}
		if c.State() != domain.StateActive {
			t.Errorf("State() = %v, want still %v", c.State(), domain.StateActive)
		}
	})

	t.Run("unknown and already-resolved placeholders rejected", func(t *testing.T) {
		c := New()
		mustBegin(t, c)
		ph, _ := c.AppendPlaceholder()
		if _, err := c.ResolvePlaceholder("nope", "q"); err == nil {
			t.Error("unknown placeholder should fail")
		}
		if _, err := c.ResolvePlaceholder(ph.ID, "q"); err != nil {
			t.Fatalf("ResolvePlaceholder() error = %v", err)
		}
		if _, err := c.ResolvePlaceholder(ph.ID, "q"); err == nil {
			t.Error("resolving twice should fail")
		}
	})
}

func TestMarkNarrated(t *testing.T) {
	c := New()
	opening := mustBegin(t, c)

	if !c.MarkNarrated(opening.ID) {
		t.Error("first MarkNarrated() should return true")
	}
	if c.MarkNarrated(opening.ID) {
		t.Error("second MarkNarrated() should return false")
	}
	if c.MarkNarrated("missing") {
		t.Error("MarkNarrated() on unknown ID should return false")
	}
}

func TestEndingLifecycle(t *testing.T) {
	c := New()
	mustBegin(t, c)
	c.AppendUser("answer")
	ph, _ := c.AppendPlaceholder()
	c.ResolvePlaceholder(ph.ID, "q2")

	if err := c.BeginEnding(); err != nil {
		t.Fatalf("BeginEnding() error = %v", err)
	}
	if c.State() != domain.StateEnding {
		t.Errorf("State() = %v, want %v", c.State(), domain.StateEnding)
	}

	// Answers are frozen while ending.
	if _, err := c.AppendUser("late answer"); err == nil {
		t.Error("AppendUser() should fail while ending")
	}

	report := &domain.Report{Feedback: "solid interview"}
	if err := c.CompleteFeedback(report); err != nil {
		t.Fatalf("CompleteFeedback() error = %v", err)
	}
	if c.State() != domain.StateFeedback {
		t.Errorf("State() = %v, want %v", c.State(), domain.StateFeedback)
	}
	if c.Session().Active {
		t.Error("session should be inactive after feedback")
	}
	if got := c.Session().QuestionNumber; got != 0 {
		t.Errorf("QuestionNumber = %d, want 0 after feedback", got)
	}
	if c.Report() == nil || c.Report().Feedback != "solid interview" {
		t.Errorf("Report() = %+v, want feedback preserved", c.Report())
	}

	// The transcript survives into feedback for display.
	if got := len(c.Messages()); got == 0 {
		t.Error("transcript should survive into feedback")
	}
}

func TestCompleteFeedbackWithoutDashboard(t *testing.T) {
	c := New()
	mustBegin(t, c)
	c.BeginEnding()

	// Analytics failed upstream; feedback text alone is enough.
	if err := c.CompleteFeedback(&domain.Report{Feedback: "done"}); err != nil {
		t.Fatalf("CompleteFeedback() error = %v", err)
	}
	if c.Report().Dashboard != nil {
		t.Error("dashboard should be nil when analytics failed")
	}
}

func TestRestart(t *testing.T) {
	c := New()
	mustBegin(t, c)
	c.AppendUser("answer")

	c.Restart()

	if c.State() != domain.StateSetup {
		t.Errorf("State() = %v, want %v", c.State(), domain.StateSetup)
	}
	if got := len(c.Messages()); got != 0 {
		t.Errorf("message count = %d, want 0", got)
	}
	if c.Session().Active {
		t.Error("session should be inactive after restart")
	}

	// A fresh interview can begin immediately.
	if _, err := c.Begin(domain.Candidate{}, 3, "w", "q"); err != nil {
		t.Errorf("Begin() after restart error = %v", err)
	}
}

func TestNewestAI(t *testing.T) {
	c := New()
	if _, ok := c.NewestAI(); ok {
		t.Error("NewestAI() should report none before begin")
	}

	mustBegin(t, c)
	c.AppendUser("answer")
	ph, _ := c.AppendPlaceholder()

	// The placeholder is not a resolved AI message.
	m, ok := c.NewestAI()
	if !ok || m.Loading {
		t.Errorf("NewestAI() = %+v, %v; want resolved opening", m, ok)
	}

	c.ResolvePlaceholder(ph.ID, "follow-up")
	m, _ = c.NewestAI()
	if m.Text != "follow-up" {
		t.Errorf("NewestAI() text = %q, want %q", m.Text, "follow-up")
	}
}

func mustBegin(t *testing.T, c *Conversation) domain.Message {
	t.Helper()
	opening, err := c.Begin(domain.Candidate{Name: "Priya", Role: "Backend Engineer"}, 5, "Welcome!", "First question?")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	return opening
}
