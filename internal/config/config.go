package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by GRAVIDA_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("GRAVIDA_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// ContentProvider returns the configured content-generation provider.
// Defaults to "openai" if not set.
// Valid values: openai, ollama, mock
func ContentProvider() string {
	p := os.Getenv("CONTENT_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// EmbeddingProvider returns the configured embedding provider.
// Defaults to "openai" if not set.
// Valid values: openai, hash, mock
func EmbeddingProvider() string {
	p := os.Getenv("EMBEDDING_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// ContentAPIKey returns the API key for the configured content provider.
func ContentAPIKey() string {
	switch ContentProvider() {
	case "ollama", "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "hash", "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// OllamaHost returns the base URL for a local Ollama server.
func OllamaHost() string {
	h := os.Getenv("OLLAMA_HOST")
	if h == "" {
		return "http://localhost:11434"
	}
	return h
}

// ProviderTimeout bounds every embedding and content-generation call.
// Defaults to 60s if not set.
func ProviderTimeout() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("PROVIDER_TIMEOUT_SECONDS"))
	if err != nil || secs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(secs) * time.Second
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// TurnRecentWindow is how many recent memories load into each turn.
// Defaults to 5 if not set.
func TurnRecentWindow() int {
	n, err := strconv.Atoi(os.Getenv("TURN_RECENT_WINDOW"))
	if err != nil || n <= 0 {
		return 5
	}
	return n
}

// TurnRelevantLimit is the top-K for relevance retrieval per turn.
// Defaults to 3 if not set.
func TurnRelevantLimit() int {
	n, err := strconv.Atoi(os.Getenv("TURN_RELEVANT_LIMIT"))
	if err != nil || n <= 0 {
		return 3
	}
	return n
}

// TurnMaxActions caps how many actions may execute per turn.
// Defaults to 3 if not set.
func TurnMaxActions() int {
	n, err := strconv.Atoi(os.Getenv("TURN_MAX_ACTIONS"))
	if err != nil || n <= 0 {
		return 3
	}
	return n
}

// TurnPriorityThreshold is the minimum priority an action needs to execute;
// lower-priority actions become suggestions. Defaults to 1 if not set.
func TurnPriorityThreshold() int {
	n, err := strconv.Atoi(os.Getenv("TURN_PRIORITY_THRESHOLD"))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
