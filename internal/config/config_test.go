package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		os.Unsetenv("VOXHIRE_SERVER_PORT")
		os.Unsetenv("VOXHIRE_CONFIG")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != 8000 {
			t.Errorf("Load() port = %v, want 8000", cfg.Server.Port)
		}
		if cfg.Client.BaseURL != "http://localhost:8000" {
			t.Errorf("Load() base URL = %v, want http://localhost:8000", cfg.Client.BaseURL)
		}
		if cfg.Client.Questions != 5 {
			t.Errorf("Load() questions = %v, want 5", cfg.Client.Questions)
		}
	})

	t.Run("env var override", func(t *testing.T) {
		t.Setenv("VOXHIRE_SERVER_PORT", "9000")
		t.Setenv("VOXHIRE_CLIENT_QUESTIONS", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != 9000 {
			t.Errorf("Load() port = %v, want 9000", cfg.Server.Port)
		}
		if cfg.Client.Questions != 3 {
			t.Errorf("Load() questions = %v, want 3", cfg.Client.Questions)
		}
	})

	t.Run("gemini api key fallback", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "test-key")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Gemini.APIKey != "test-key" {
			t.Errorf("Load() api key = %v, want test-key", cfg.Gemini.APIKey)
		}
	})

	t.Run("yaml file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "voxhire.yaml")
		content := "server:\n  port: 7070\ncandidate:\n  name: Priya\n  role: Backend Engineer\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("VOXHIRE_CONFIG", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != 7070 {
			t.Errorf("Load() port = %v, want 7070", cfg.Server.Port)
		}
		if cfg.Candidate.Name != "Priya" {
			t.Errorf("Load() candidate name = %v, want Priya", cfg.Candidate.Name)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("VOXHIRE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		if _, err := Load(); err == nil {
			t.Error("Load() expected error for missing config file")
		}
	})
}
