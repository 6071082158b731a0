package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	LogLevel      string
	// Expected application ID on inbound envelopes; empty disables the check.
	SkillApplicationID string
	// OpenAI backs the text/voice console: intent classification and
	// transcription. The platform endpoint never needs it.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	STTModel      string
	// Path to the YAML prompt spec for the intent classifier
	IntentPromptPath string
	// Text/voice console
	ConsoleEnabled        bool
	SessionTTL            time.Duration
	MaxTranscriptMessages int
	RateLimitPerMin       int
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:                  getEnvDefault("PORT", "8080"),
		AllowedOrigin:         getEnvDefault("ALLOWED_ORIGIN", "*"),
		LogLevel:              getEnvDefault("LOG_LEVEL", "info"),
		SkillApplicationID:    os.Getenv("SKILL_APPLICATION_ID"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:         os.Getenv("OPENAI_BASE_URL"),
		Model:                 getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		STTModel:              getEnvDefault("OPENAI_STT_MODEL", "whisper-1"),
		IntentPromptPath:      getEnvDefault("INTENT_PROMPT_PATH", "./prompts/intent.yaml"),
		ConsoleEnabled:        getEnvBoolDefault("CONSOLE_ENABLED", true),
		SessionTTL:            getEnvDurationDefault("SESSION_TTL", 15*time.Minute),
		MaxTranscriptMessages: getEnvIntDefault("MAX_TRANSCRIPT_MESSAGES", 40),
		RateLimitPerMin:       getEnvIntDefault("RATE_LIMIT_PER_MIN", 600),
	}
	return cfg
}

// Warnings lists settings that leave optional features off. Load runs before
// logging is configured, so the caller logs these afterwards.
func (c Config) Warnings() []string {
	var out []string
	if !c.OpenAIEnabled() {
		out = append(out, "OPENAI_API_KEY is not set; console falls back to keyword intent detection and voice is disabled")
	}
	if c.SkillApplicationID == "" {
		out = append(out, "SKILL_APPLICATION_ID is not set; inbound application IDs are not verified")
	}
	return out
}

// OpenAIEnabled reports whether the console may call the OpenAI API.
func (c Config) OpenAIEnabled() bool { return strings.TrimSpace(c.OpenAIAPIKey) != "" }

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
