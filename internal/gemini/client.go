// Package gemini implements question generation, feedback, analytics, and
// speech synthesis on Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/voxhire/voxhire/internal/audio"
	"github.com/voxhire/voxhire/internal/domain"
)

const (
	questionModel = "gemini-2.0-flash"
	speechModel   = "gemini-2.5-pro-preview-tts"

	// voiceName is pinned; the synthesizer never falls back to the
	// default voice. Degradation happens client-side instead.
	voiceName = "Charon"
)

// Client wraps the Gemini API for the interview backend.
type Client struct {
	genai  *genai.Client
	logger *slog.Logger
}

// New creates a Gemini client with the given API key.
func New(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{genai: gc, logger: logger}, nil
}

// GenerateQuestion produces interview question number index from the
// conversation so far. On model failure it falls back to the default
// question bank so the interview keeps moving.
func (c *Client) GenerateQuestion(ctx context.Context, history []domain.Message, index int, candidate domain.Candidate) string {
	prompt := questionPrompt(history, index, candidate)

	resp, err := c.genai.Models.GenerateContent(ctx, questionModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	if err != nil {
		c.logger.Warn("question generation failed, using default bank",
			slog.Int("index", index),
			slog.String("error", err.Error()))
		return defaultQuestion(index)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return defaultQuestion(index)
	}
	return text
}

// GenerateFeedback produces the end-of-interview narrative. On model
// failure it returns the fixed best-effort feedback text.
func (c *Client) GenerateFeedback(ctx context.Context, history []domain.Message) string {
	resp, err := c.genai.Models.GenerateContent(ctx, questionModel, genai.Text(feedbackPrompt(history)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	if err != nil {
		c.logger.Warn("feedback generation failed, using default", slog.String("error", err.Error()))
		return defaultFeedback
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "Interview completed successfully."
	}
	return text
}

// GenerateMetricsJSON asks the model for the raw analytics metrics as a
// strict-JSON document and returns the cleaned JSON text.
func (c *Client) GenerateMetricsJSON(ctx context.Context, history []domain.Message) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, questionModel, genai.Text(analyticsPrompt(history)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	if err != nil {
		return "", fmt.Errorf("analytics generation: %w", err)
	}
	return StripFences(resp.Text()), nil
}

// GenerateSpeech synthesizes text with the pinned voice and returns a WAV
// payload. Quota exhaustion returns an empty payload, the signal for the
// client to fall back to its own tiers; other failures return a short
// silent WAV so the session is not stalled.
func (c *Client) GenerateSpeech(ctx context.Context, text string) []byte {
	config := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr[float32](1),
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: voiceName,
				},
			},
		},
	}

	var pcm []byte
	var mimeType string

	for resp, err := range c.genai.Models.GenerateContentStream(ctx, speechModel, genai.Text(text), config) {
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn("speech quota exhausted, signalling client fallback")
				return nil
			}
			c.logger.Error("speech generation failed", slog.String("error", err.Error()))
			return audio.SilentWAV(1)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.InlineData == nil || len(part.InlineData.Data) == 0 {
					continue
				}
				pcm = append(pcm, part.InlineData.Data...)
				if mimeType == "" {
					mimeType = part.InlineData.MIMEType
				}
			}
		}
	}

	if len(pcm) == 0 {
		c.logger.Warn("speech stream produced no audio, returning silence")
		return audio.SilentWAV(1)
	}

	// The stream delivers raw linear PCM; wrap it for the wire.
	if !strings.Contains(mimeType, "wav") {
		return audio.EncodeWAV(pcm, audio.ParseMIMEParams(mimeType))
	}
	return pcm
}

// GenerateTranscript converts a recorded audio clip into text.
func (c *Client) GenerateTranscript(ctx context.Context, clip []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText("Transcribe this audio recording of an interview answer. Return only the spoken words, with no commentary."),
			genai.NewPartFromBytes(clip, mimeType),
		}, genai.RoleUser),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, questionModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("transcription: empty result")
	}
	return text, nil
}

func isQuotaError(err error) bool {
	s := err.Error()
	return strings.Contains(s, "429") ||
		strings.Contains(s, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(s), "quota")
}

// StripFences removes a wrapping markdown code fence from a model reply.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
