// Command voxhire is the interactive interview client. It drives one turn at
// a time against the backend, narrating each question aloud and accepting
// typed or spoken answers.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/voxhire/voxhire/internal/collaborator"
	"github.com/voxhire/voxhire/internal/config"
	"github.com/voxhire/voxhire/internal/domain"
	"github.com/voxhire/voxhire/internal/input"
	"github.com/voxhire/voxhire/internal/playback"
	"github.com/voxhire/voxhire/internal/storage"
	"github.com/voxhire/voxhire/internal/storage/memory"
	"github.com/voxhire/voxhire/internal/storage/sqlite"
	"github.com/voxhire/voxhire/internal/turn"
)

const usage = `Commands:
  /start     begin the interview
  /mic       toggle the microphone (spoken answers are submitted on stop)
  /end       finish and get feedback
  /restart   discard the session and return to setup
  /quit      exit
Anything else is submitted as your answer.`

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	collab := collaborator.New(
		collaborator.WithBaseURL(cfg.Client.BaseURL),
		collaborator.WithTokenBudget(cfg.Client.TokenBudget),
	)

	var cache storage.SpeechCache
	if cfg.Client.CachePath != "" {
		cache, err = sqlite.New(cfg.Client.CachePath)
		if err != nil {
			logger.Warn("speech cache unavailable, using memory",
				slog.String("error", err.Error()))
			cache = memory.New()
		}
	} else {
		cache = memory.New()
	}
	defer cache.Close()

	opts := []playback.Option{playback.WithCache(cache)}
	if cfg.Client.FFPlayPath != "" {
		opts = append(opts, playback.WithFFPlayPath(cfg.Client.FFPlayPath))
	}
	pipeline := playback.New(collab, logger, opts...)

	orch := turn.New(collab, pipeline, logger)

	candidate := domain.Candidate{
		Name:       cfg.Candidate.Name,
		Role:       cfg.Candidate.Role,
		Experience: cfg.Candidate.Experience,
		Resume:     cfg.Candidate.Resume,
	}

	ctx := context.Background()

	// A spoken answer is submitted the moment capture stops and the
	// transcript comes back, the same path a typed answer takes.
	recognizer := input.NewRecognizer(input.NewMicCapture(), collab, input.Events{
		OnPartial: func(text string) {
			// Live preview only; the answer goes out on OnFinal.
			fmt.Printf("\r[hearing] %s", text)
		},
		OnFinal: func(text string) {
			fmt.Printf("\ryou said: %s\n", text)
			submit(ctx, orch, text)
		},
		OnError: func(err error) {
			if domain.IsPermissionError(err) {
				fmt.Println("microphone access denied; voice input disabled. Type your answers instead.")
				return
			}
			fmt.Println("voice input failed; please type your answer.")
		},
	}, logger)

	fmt.Println("voxhire interview client")
	fmt.Println(usage)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "/quit":
			orch.Restart()
			return
		case "/start":
			if err := orch.Start(ctx, candidate, cfg.Client.Questions); err != nil {
				report(err)
				continue
			}
			printNewest(orch)
		case "/mic":
			toggleMic(ctx, recognizer)
		case "/end":
			if err := orch.End(ctx); err != nil {
				report(err)
				continue
			}
			printReport(orch)
		case "/restart":
			orch.Restart()
			fmt.Println("session reset")
		case "", "/help":
			fmt.Println(usage)
		default:
			submit(ctx, orch, line)
		}
	}
}

func submit(ctx context.Context, orch *turn.Orchestrator, text string) {
	if err := orch.Submit(ctx, text); err != nil {
		report(err)
		return
	}
	printNewest(orch)
}

func toggleMic(ctx context.Context, r *input.Recognizer) {
	if r.Disabled() {
		fmt.Println("microphone is disabled (permission denied)")
		return
	}
	if r.Listening() {
		fmt.Println("mic off, transcribing...")
		r.Stop(ctx)
		return
	}
	if err := r.Start(ctx); err != nil {
		return
	}
	fmt.Println("mic on, /mic again to stop")
}

func report(err error) {
	switch {
	case errors.Is(err, domain.ErrGateBusy):
		fmt.Println("still working on the previous turn...")
	case errors.Is(err, domain.ErrEmptyInput):
		fmt.Println("please enter an answer")
	default:
		var pe *domain.PlaybackError
		if errors.As(err, &pe) {
			fmt.Println("audio playback is unavailable; continuing in text")
			return
		}
		fmt.Printf("error: %v\n", err)
	}
}

func printNewest(orch *turn.Orchestrator) {
	if msg, ok := orch.Conversation().NewestAI(); ok {
		session := orch.Conversation().Session()
		fmt.Printf("\n[interviewer %d/%d] %s\n", session.QuestionNumber, session.QuestionTotal, msg.Text)
	}
}

func printReport(orch *turn.Orchestrator) {
	rep := orch.Conversation().Report()
	if rep == nil {
		return
	}
	fmt.Println("\n=== Interview feedback ===")
	fmt.Println(rep.Feedback)
	if rep.Dashboard != nil {
		fmt.Printf("\nOverall score: %.0f%%\n", rep.Dashboard.OverallScore)
		for _, kpi := range rep.Dashboard.KPIs {
			fmt.Printf("  %-25s %6.1f %s (%s)\n", kpi.Label, kpi.Value, kpi.Unit, kpi.Status)
		}
		if len(rep.Dashboard.Strengths) > 0 {
			fmt.Println("\nStrengths:")
			for _, s := range rep.Dashboard.Strengths {
				fmt.Printf("  - %s\n", s)
			}
		}
		if len(rep.Dashboard.Improvements) > 0 {
			fmt.Println("\nAreas to improve:")
			for _, s := range rep.Dashboard.Improvements {
				fmt.Printf("  - %s\n", s)
			}
		}
	}
	for name, score := range rep.DifficultyScores {
		fmt.Printf("  %s questions: %.0f%%\n", name, score)
	}
}
