package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/voxhire/voxhire/internal/analytics"
	"github.com/voxhire/voxhire/internal/domain"
)

// welcomeMessage opens every interview session.
const welcomeMessage = "Hello! I'm your AI interview partner. I'll conduct a professional technical interview with you today. Let's begin!"

// Generator produces interview content. The Gemini client implements it;
// tests substitute a stub.
type Generator interface {
	GenerateQuestion(ctx context.Context, history []domain.Message, index int, candidate domain.Candidate) string
	GenerateFeedback(ctx context.Context, history []domain.Message) string
	GenerateMetricsJSON(ctx context.Context, history []domain.Message) (string, error)
	GenerateSpeech(ctx context.Context, text string) []byte
	GenerateTranscript(ctx context.Context, clip []byte, mimeType string) (string, error)
}

// Handler serves the interview API.
type Handler struct {
	gen    Generator
	logger *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(gen Generator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gen: gen, logger: logger}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r interface {
	Get(pattern string, handler http.HandlerFunc)
	Post(pattern string, handler http.HandlerFunc)
}) {
	r.Get("/api/health", h.handleHealth)
	r.Post("/api/interview/start", h.handleStart)
	r.Post("/api/interview/question", h.handleQuestion)
	r.Post("/api/interview/feedback", h.handleFeedback)
	r.Post("/api/interview/analytics-dashboard", h.handleAnalytics)
	r.Post("/api/interview/speak", h.handleSpeak)
	r.Post("/api/transcribe", h.handleTranscribe)
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func fromWire(history []wireMessage) []domain.Message {
	out := make([]domain.Message, 0, len(history))
	for _, m := range history {
		sender := domain.SenderUser
		if m.Role == "assistant" {
			sender = domain.SenderAI
		}
		out = append(out, domain.Message{Text: m.Content, Sender: sender})
	}
	return out
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, map[string]string{"detail": detail})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "voxhired",
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NumberOfQuestions int `json:"numberOfQuestions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NumberOfQuestions <= 0 {
		req.NumberOfQuestions = 5
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"welcomeMessage":    welcomeMessage,
		"numberOfQuestions": req.NumberOfQuestions,
		"message":           "Interview session started successfully",
	})
}

func (h *Handler) handleQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationHistory []wireMessage     `json:"conversationHistory"`
		QuestionNumber      int               `json:"questionNumber"`
		UserResponse        string            `json:"userResponse"`
		CandidateContext    *domain.Candidate `json:"candidateContext"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var candidate domain.Candidate
	if req.CandidateContext != nil {
		candidate = *req.CandidateContext
	}
	question := h.gen.GenerateQuestion(r.Context(), fromWire(req.ConversationHistory), req.QuestionNumber, candidate)
	AddLogField(r.Context(), "question_number", strconv.Itoa(req.QuestionNumber))

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "success",
		"question":       question,
		"questionNumber": req.QuestionNumber,
	})
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationHistory []wireMessage `json:"conversationHistory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	feedback := h.gen.GenerateFeedback(r.Context(), fromWire(req.ConversationHistory))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"feedback": feedback,
		"message":  "Interview feedback generated successfully",
	})
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationHistory []wireMessage `json:"conversationHistory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dashboard, difficulty := h.buildDashboard(r.Context(), fromWire(req.ConversationHistory))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":           "success",
		"dashboard":        dashboard,
		"difficultyScores": difficulty,
	})
}

// buildDashboard degrades to the default report on any analysis failure.
func (h *Handler) buildDashboard(ctx context.Context, history []domain.Message) (*domain.Dashboard, map[string]float64) {
	raw, err := h.gen.GenerateMetricsJSON(ctx, history)
	if err != nil {
		h.logger.Warn("analytics generation failed, using defaults", slog.String("error", err.Error()))
		return analytics.DefaultDashboard()
	}
	metrics, err := analytics.ParseMetrics(raw)
	if err != nil {
		h.logger.Warn("analytics parse failed, using defaults", slog.String("error", err.Error()))
		return analytics.DefaultDashboard()
	}
	return analytics.BuildDashboard(metrics)
}

func (h *Handler) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.writeError(w, http.StatusBadRequest, "text cannot be empty or whitespace only")
		return
	}

	data := h.gen.GenerateSpeech(r.Context(), req.Text)
	if len(data) == 0 {
		// Quota exhausted upstream; the client runs its own fallback.
		h.writeError(w, http.StatusBadRequest, "speech generation returned empty audio")
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", `attachment; filename=response.wav`)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write audio failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("audio")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	clip, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to read audio")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	text, err := h.gen.GenerateTranscript(r.Context(), clip, mimeType)
	if err != nil {
		AddError(r.Context(), err)
		h.writeError(w, http.StatusInternalServerError, "transcription failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"text":    text,
		"message": "Audio transcribed successfully",
	})
}
