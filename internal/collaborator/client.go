// Package collaborator is the HTTP client for the interview backend: the
// question-generation, feedback, speech-synthesis, and transcription
// service consumed over request/response calls.
package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/voxhire/voxhire/internal/domain"
	"github.com/voxhire/voxhire/internal/tokens"
)

const defaultBaseURL = "http://localhost:8000"

var tracer = otel.Tracer("voxhire/collaborator")

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenBudget caps the token count of the history sent with each call.
// Oldest turns are dropped first. Zero means no cap.
func WithTokenBudget(budget int) ClientOption {
	return func(c *Client) {
		c.budget = budget
	}
}

// Client talks to the interview backend. All calls treat non-2xx responses
// uniformly as collaborator failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
	budget     int
	counter    *tokens.Counter
}

// New creates a collaborator client.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		counter:    tokens.NewCounter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wireMessage is the transcript entry format the backend expects.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toWire(history []domain.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history))
	for _, m := range history {
		if m.Loading {
			continue
		}
		out = append(out, wireMessage{Role: m.Sender.Role(), Content: m.Text})
	}
	return out
}

// trimToBudget drops the oldest turns until the history fits the token
// budget. The most recent context matters most to question generation.
func (c *Client) trimToBudget(history []wireMessage) []wireMessage {
	if c.budget <= 0 {
		return history
	}
	for len(history) > 1 {
		total := 0
		for _, m := range history {
			total += c.counter.Count(m.Content)
		}
		if total <= c.budget {
			break
		}
		history = history[1:]
	}
	return history
}

type startRequest struct {
	NumberOfQuestions int `json:"numberOfQuestions"`
}

type startResponse struct {
	Status         string `json:"status"`
	WelcomeMessage string `json:"welcomeMessage"`
}

// StartSession begins an interview and returns the welcome text.
func (c *Client) StartSession(ctx context.Context, questionCount int) (string, error) {
	var resp startResponse
	if err := c.postJSON(ctx, "start session", "/api/interview/start", startRequest{NumberOfQuestions: questionCount}, &resp); err != nil {
		return "", err
	}
	return resp.WelcomeMessage, nil
}

type questionRequest struct {
	ConversationHistory []wireMessage     `json:"conversationHistory"`
	QuestionNumber      int               `json:"questionNumber"`
	UserResponse        string            `json:"userResponse,omitempty"`
	CandidateContext    *domain.Candidate `json:"candidateContext,omitempty"`
}

type questionResponse struct {
	Status   string `json:"status"`
	Question string `json:"question"`
}

// NextQuestion requests the next interview question given the full prior
// turn history, the latest answer, and the next question index.
func (c *Client) NextQuestion(ctx context.Context, history []domain.Message, answer string, index int, candidate domain.Candidate) (string, error) {
	req := questionRequest{
		ConversationHistory: c.trimToBudget(toWire(history)),
		QuestionNumber:      index,
		UserResponse:        answer,
	}
	if !candidate.IsZero() {
		req.CandidateContext = &candidate
	}
	var resp questionResponse
	if err := c.postJSON(ctx, "next question", "/api/interview/question", req, &resp); err != nil {
		return "", err
	}
	return resp.Question, nil
}

type historyRequest struct {
	ConversationHistory []wireMessage `json:"conversationHistory"`
}

type feedbackResponse struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

// Feedback requests the end-of-session narrative feedback.
func (c *Client) Feedback(ctx context.Context, history []domain.Message) (string, error) {
	var resp feedbackResponse
	if err := c.postJSON(ctx, "feedback", "/api/interview/feedback", historyRequest{ConversationHistory: c.trimToBudget(toWire(history))}, &resp); err != nil {
		return "", err
	}
	return resp.Feedback, nil
}

type analyticsResponse struct {
	Status           string             `json:"status"`
	Dashboard        *domain.Dashboard  `json:"dashboard"`
	DifficultyScores map[string]float64 `json:"difficultyScores"`
}

// Analytics requests the structured analytics report.
func (c *Client) Analytics(ctx context.Context, history []domain.Message) (*domain.Dashboard, map[string]float64, error) {
	var resp analyticsResponse
	if err := c.postJSON(ctx, "analytics", "/api/interview/analytics-dashboard", historyRequest{ConversationHistory: c.trimToBudget(toWire(history))}, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Dashboard, resp.DifficultyScores, nil
}

type speakRequest struct {
	Text string `json:"text"`
}

// Synthesize requests synthesized audio bytes for the text. An empty body
// or a non-audio content type is returned as-is; the playback pipeline
// treats both as the fallback signal.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "collaborator.Synthesize")
	defer span.End()
	span.SetAttributes(attribute.Int("text_length", len(text)))

	body, err := json.Marshal(speakRequest{Text: text})
	if err != nil {
		return nil, "", &domain.CollaboratorError{Call: "synthesize", Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/interview/speak", bytes.NewReader(body))
	if err != nil {
		return nil, "", &domain.CollaboratorError{Call: "synthesize", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", &domain.CollaboratorError{Call: "synthesize", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &domain.CollaboratorError{Call: "synthesize", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &domain.CollaboratorError{
			Call:       "synthesize",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(data))),
		}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

type transcribeResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

// Transcribe uploads a recorded audio clip and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, clip []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "collaborator.Transcribe")
	defer span.End()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("audio", "answer.wav")
	if err != nil {
		return "", &domain.CollaboratorError{Call: "transcribe", Err: err}
	}
	if _, err := part.Write(clip); err != nil {
		return "", &domain.CollaboratorError{Call: "transcribe", Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &domain.CollaboratorError{Call: "transcribe", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcribe", body)
	if err != nil {
		return "", &domain.CollaboratorError{Call: "transcribe", Err: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &domain.CollaboratorError{Call: "transcribe", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.CollaboratorError{Call: "transcribe", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.CollaboratorError{
			Call:       "transcribe",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(data))),
		}
	}
	var out transcribeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &domain.CollaboratorError{Call: "transcribe", Err: err}
	}
	return out.Text, nil
}

// postJSON performs a JSON request/response call. Any non-2xx status is a
// uniform collaborator failure.
func (c *Client) postJSON(ctx context.Context, call, path string, reqBody, respBody any) error {
	ctx, span := tracer.Start(ctx, "collaborator."+call)
	defer span.End()

	body, err := json.Marshal(reqBody)
	if err != nil {
		return &domain.CollaboratorError{Call: call, Err: fmt.Errorf("marshal request: %w", err)}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &domain.CollaboratorError{Call: call, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.CollaboratorError{Call: call, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.CollaboratorError{Call: call, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.CollaboratorError{
			Call:       call,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(data))),
		}
	}
	if err := json.Unmarshal(data, respBody); err != nil {
		return &domain.CollaboratorError{Call: call, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}
