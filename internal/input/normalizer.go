// Package input normalizes candidate answers, whether typed or spoken, and
// owns the speech-recognition capture session.
package input

import (
	"strings"

	"github.com/voxhire/voxhire/internal/domain"
)

// Normalize converts raw text from either the keyboard field or the final
// transcript of a recognition session into a single trimmed string.
// Whitespace-only input is rejected with domain.ErrEmptyInput before any
// state change or network call happens.
func Normalize(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", domain.ErrEmptyInput
	}
	return text, nil
}
