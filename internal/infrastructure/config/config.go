package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DBPath          string

	// Session engine defaults; individual session requests may override them.
	MatchThreshold float64 // 0 = exact match required, 1 = maximally lenient
	Shuffle        bool
	PracticeCount  int // extra repeats queued after a missed question

	// Explanations for missed answers. Empty LLMURL disables the feature.
	LLMURL   string // OpenAI-compatible endpoint, e.g. "http://localhost:1234"
	LLMModel string // model name, e.g. "qwen3-8b"

	// Simulate runs a scripted practice session at startup and exits.
	Simulate bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:          getenvDefault("DB_PATH", "quizdrill.db"),
		MatchThreshold:  getenvFloat("MATCH_THRESHOLD", 0.2),
		Shuffle:         getenvBool("SHUFFLE", true),
		PracticeCount:   getenvInt("PRACTICE_COUNT", 2),
		LLMURL:          os.Getenv("LLM_URL"),
		LLMModel:        getenvDefault("LLM_MODEL", "qwen3-8b"),
		Simulate:        getenvBool("SIMULATE", false),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(k string, fallback float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid float: %v", k, v, err)
	}
	return f
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}
