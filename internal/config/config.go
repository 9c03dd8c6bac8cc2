// Package config loads settings from an optional YAML file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	Client    ClientConfig    `koanf:"client"`
	Candidate CandidateConfig `koanf:"candidate"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
}

// ClientConfig drives the interactive interview client.
type ClientConfig struct {
	BaseURL     string `koanf:"base_url"`
	Questions   int    `koanf:"questions"`
	TokenBudget int    `koanf:"token_budget"`
	CachePath   string `koanf:"cache_path"`
	FFPlayPath  string `koanf:"ffplay_path"`
}

// CandidateConfig seeds the candidate context sent with question requests.
type CandidateConfig struct {
	Name       string `koanf:"name"`
	Role       string `koanf:"role"`
	Experience string `koanf:"experience"`
	Resume     string `koanf:"resume"`
}

// Load reads the YAML file named by VOXHIRE_CONFIG (if set), then applies
// VOXHIRE_* environment overrides, then fills defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("VOXHIRE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("VOXHIRE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "VOXHIRE_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// GEMINI_API_KEY is the conventional name for the key; accept it when
	// the namespaced variable is absent.
	if !k.Exists("gemini.api.key") && os.Getenv("GEMINI_API_KEY") != "" {
		k.Set("gemini.api.key", os.Getenv("GEMINI_API_KEY"))
	}

	defaults := map[string]any{
		"server.port":         8000,
		"client.base.url":     "http://localhost:8000",
		"client.questions":    5,
		"client.token.budget": 6000,
	}
	for key, val := range defaults {
		if !k.Exists(key) {
			k.Set(key, val)
		}
	}

	cfg := &Config{
		Server: ServerConfig{Port: k.Int("server.port")},
		Gemini: GeminiConfig{APIKey: k.String("gemini.api.key")},
		Client: ClientConfig{
			BaseURL:     k.String("client.base.url"),
			Questions:   k.Int("client.questions"),
			TokenBudget: k.Int("client.token.budget"),
			CachePath:   k.String("client.cache.path"),
			FFPlayPath:  k.String("client.ffplay.path"),
		},
		Candidate: CandidateConfig{
			Name:       k.String("candidate.name"),
			Role:       k.String("candidate.role"),
			Experience: k.String("candidate.experience"),
			Resume:     k.String("candidate.resume"),
		},
	}
	return cfg, nil
}
