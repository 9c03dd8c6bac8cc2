package tokens

import "testing"

func TestCount(t *testing.T) {
	c := NewCounter()

	if got := c.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}

	short := c.Count("hello")
	if short < 1 {
		t.Errorf("Count(hello) = %d, want at least 1", short)
	}

	long := c.Count("Tell me about a time you had to debug a production incident under pressure.")
	if long <= short {
		t.Errorf("longer text counted %d tokens, short counted %d; want monotonic growth", long, short)
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"aaaaaaaa", 2},
	}
	for _, tt := range tests {
		if got := estimate(tt.text); got != tt.want {
			t.Errorf("estimate(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
