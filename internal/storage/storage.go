// Package storage defines the persistence interfaces for the voice cache.
package storage

import "context"

// SpeechCache stores synthesized audio keyed by utterance hash. Lookups are
// best-effort: implementations degrade to a miss on any internal error.
type SpeechCache interface {
	Get(ctx context.Context, key string) (data []byte, contentType string, ok bool)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Close() error
}
