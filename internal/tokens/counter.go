// Package tokens provides token counting for prompt budgeting.
package tokens

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens with a tiktoken codec, falling back to a
// character-based estimate when the codec is unavailable.
type Counter struct {
	once  sync.Once
	codec tokenizer.Codec
}

// NewCounter creates a counter. The codec is loaded lazily on first use.
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	c.once.Do(func() {
		codec, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			c.codec = codec
		}
	})
	if c.codec != nil {
		if n, err := c.codec.Count(text); err == nil {
			return n
		}
	}
	return estimate(text)
}

// estimate approximates tokens as one per four characters, the usual
// rule of thumb for English prose.
func estimate(text string) int {
	n := (len(text) + 3) / 4
	if n == 0 && len(text) > 0 {
		n = 1
	}
	return n
}
