// ABOUTME: Application configuration from environment variables
// ABOUTME: Loads API credentials, model names, and data paths
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds the generative backend and local storage settings
type Config struct {
	APIKey      string `env:"LINGOPOP_API_KEY, required"`
	APIBase     string `env:"LINGOPOP_API_BASE, default=https://generativelanguage.googleapis.com"`
	TextModel   string `env:"LINGOPOP_TEXT_MODEL, default=gemini-2.5-flash"`
	ImageModel  string `env:"LINGOPOP_IMAGE_MODEL, default=gemini-2.5-flash-image"`
	SpeechModel string `env:"LINGOPOP_SPEECH_MODEL, default=gemini-2.5-flash-tts"`
	LiveModel   string `env:"LINGOPOP_LIVE_MODEL, default=gemini-2.5-flash-live"`
	Voice       string `env:"LINGOPOP_VOICE, default=Kore"`
	Language    string `env:"LINGOPOP_LANGUAGE, default=en"`
	DataDir     string `env:"LINGOPOP_DATA_DIR"`
}

// LoadEnv loads a .env file if one exists
func LoadEnv() error {
	return godotenv.Load()
}

// FromEnv builds a Config from the environment
func FromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = filepath.Join(home, ".lingopop")
	}

	return &cfg, nil
}
