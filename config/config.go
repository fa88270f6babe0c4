package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds everything the service reads from the environment. Values
// come from process env (main loads .env first via godotenv).
type Config struct {
	Port     string
	LogLevel string

	// Fetcher
	FetchTimeout    time.Duration // budget for downloading the source audio
	MaxDownloadMB   int           // hard cap on downloaded bytes
	MinAudioSeconds float64       // validation floor for decoded duration
	MaxAudioSeconds float64       // 0 disables the orchestrator-level cap

	// Diarization engine
	HuggingFaceToken string        // opaque credential handed to the runtime
	DiarizationURL   string        // base URL of the diarization runtime
	DiarizationWait  time.Duration // per-inference HTTP timeout

	// Optional bearer auth for /analyze; disabled when empty.
	JWTSecret string
}

const (
	defaultPort            = "8080"
	defaultFetchTimeout    = 10 * time.Second
	defaultMaxDownloadMB   = 50
	defaultMinAudioSeconds = 1.0
	defaultDiarizationURL  = "http://localhost:8388"
	defaultDiarizationWait = 300 * time.Second
)

// Load reads the service configuration from the environment, applying
// defaults. It fails when the diarization credential is missing: the engine
// cannot initialize without it, so the process should not start.
func Load() (*Config, error) {
	token := os.Getenv("HUGGINGFACE_TOKEN")
	if token == "" {
		return nil, errors.New("HUGGINGFACE_TOKEN environment variable is not set")
	}

	cfg := &Config{
		Port:             envString("PORT", defaultPort),
		LogLevel:         envString("LOG_LEVEL", "info"),
		FetchTimeout:     time.Duration(envFloat("FETCH_TIMEOUT_SECONDS", defaultFetchTimeout.Seconds()) * float64(time.Second)),
		MaxDownloadMB:    envInt("MAX_DOWNLOAD_MB", defaultMaxDownloadMB),
		MinAudioSeconds:  envFloat("MIN_AUDIO_SECONDS", defaultMinAudioSeconds),
		MaxAudioSeconds:  envFloat("MAX_AUDIO_SECONDS", 0),
		HuggingFaceToken: token,
		DiarizationURL:   envString("DIARIZATION_URL", defaultDiarizationURL),
		DiarizationWait:  time.Duration(envFloat("DIARIZATION_TIMEOUT_SECONDS", defaultDiarizationWait.Seconds()) * float64(time.Second)),
		JWTSecret:        os.Getenv("JWT_SECRET"),
	}

	if cfg.FetchTimeout <= 0 {
		return nil, errors.New("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if cfg.MaxDownloadMB <= 0 {
		return nil, errors.New("MAX_DOWNLOAD_MB must be positive")
	}
	if cfg.MinAudioSeconds <= 0 {
		return nil, errors.New("MIN_AUDIO_SECONDS must be positive")
	}
	if cfg.MaxAudioSeconds < 0 {
		return nil, errors.New("MAX_AUDIO_SECONDS must be zero or positive")
	}
	return cfg, nil
}

// MaxDownloadBytes converts the configured megabyte cap to bytes.
func (c *Config) MaxDownloadBytes() int64 {
	return int64(c.MaxDownloadMB) << 20
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
