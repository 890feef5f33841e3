// Package config resolves runtime settings from flags, STUDYBUDDY_*
// environment variables and an optional studybuddy.{yaml,json,toml} file.
package config

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/studybuddy/internal/adaptive"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/retrieval"
)

// EnvPrefix is prepended to every environment variable, with "-" mapped
// to "_": the "llm-provider" key reads STUDYBUDDY_LLM_PROVIDER.
const EnvPrefix = "STUDYBUDDY"

// Retrieval backends.
const (
	BackendMemory   = "memory"
	BackendPinecone = "pinecone"
	BackendNone     = "none"
)

// Keys.
const (
	KeyQuestions  = "questions"
	KeyTutorials  = "tutorials"
	KeyExercises  = "exercises"
	KeyRetrieval  = "retrieval"
	KeySeed       = "seed"
	KeyDB         = "db"
	KeyNoJournal  = "no-journal"
	KeyLogLevel   = "log-level"
	KeyLogFormat  = "log-format"
	KeyLang       = "lang"
	KeyLLMTimeout = "llm-timeout"

	KeyLLMProvider         = "llm-provider"
	KeyLLMAnthropicKey     = "llm-anthropic-api-key"
	KeyLLMAnthropicModel   = "llm-anthropic-model"
	KeyLLMOpenAIKey        = "llm-openai-api-key"
	KeyLLMOpenAIModel      = "llm-openai-model"
	KeyLLMOpenAIBaseURL    = "llm-openai-base-url"
	KeyLLMGeminiKey        = "llm-gemini-api-key"
	KeyLLMGeminiModel      = "llm-gemini-model"
	KeyLLMOpenRouterKey    = "llm-openrouter-api-key"
	KeyLLMOpenRouterModel  = "llm-openrouter-model"
	KeyLLMRetryMaxAttempts = "llm-retry-max-attempts"

	KeyPineconeAPIKey    = "pinecone-api-key"
	KeyPineconeIndex     = "pinecone-index"
	KeyPineconeNamespace = "pinecone-namespace"
	KeyEmbeddingAPIKey   = "embedding-api-key"
	KeyEmbeddingModel    = "embedding-model"

	KeyMinAttempts      = "min-attempts"
	KeyPromoteThreshold = "promote-threshold"
	KeyDemoteThreshold  = "demote-threshold"
	KeyEmergencyWindow  = "emergency-window"
	KeyMaxHintLevel     = "max-hint-level"
)

// RetrievalConfig selects and configures the reference retriever.
type RetrievalConfig struct {
	Backend  string
	Pinecone retrieval.PineconeConfig
}

// Config is the resolved runtime configuration.
type Config struct {
	// Data file overrides. Empty paths use the built-in data.
	QuestionsPath string
	TutorialsPath string
	ExercisesPath string

	Retrieval RetrievalConfig

	// Seed fixes question selection. Zero seeds from the clock.
	Seed uint64

	Adaptive adaptive.Config
	LLM      llm.Config

	// DBPath is the journal database. Empty uses the default location.
	DBPath    string
	NoJournal bool

	LogLevel  string
	LogFormat string
	Language  string
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := adaptive.DefaultConfig()

	fs.String(KeyQuestions, "", "Question bank JSON file (default: built-in bank)")
	fs.String(KeyTutorials, "", "Tutorial chunks JSON file (default: built-in corpus)")
	fs.String(KeyExercises, "", "Exercises JSON file (default: built-in corpus)")
	fs.String(KeyRetrieval, BackendMemory, "Retrieval backend (memory, pinecone, none)")
	fs.Uint64(KeySeed, 0, "Random seed for question selection (0 = time-seeded)")
	fs.String(KeyDB, "", "Path to SQLite journal database (default: XDG data dir)")
	fs.Bool(KeyNoJournal, false, "Do not record turns, answers or LLM requests")
	fs.String(KeyLogLevel, "warn", "Log level (debug, info, warn, error)")
	fs.String(KeyLogFormat, "text", "Log format (text, json)")
	fs.String(KeyLang, "en", "Response language")
	fs.String(KeyLLMProvider, "", "LLM provider (anthropic, openai, gemini, openrouter, mock, none; empty = discover from API keys)")
	fs.Duration(KeyLLMTimeout, 30*time.Second, "Timeout for a single LLM request")
	fs.String(KeyPineconeIndex, "studybuddy", "Pinecone index name")
	fs.String(KeyPineconeNamespace, "studybuddy", "Prefix for Pinecone namespaces")
	fs.String(KeyEmbeddingModel, "text-embedding-3-small", "OpenAI embedding model for Pinecone retrieval")
	fs.Int(KeyMinAttempts, def.MinAttempts, "Answers needed on a topic before its difficulty changes")
	fs.Float64(KeyPromoteThreshold, def.PromoteThreshold, "Accuracy at or above which a topic is promoted")
	fs.Float64(KeyDemoteThreshold, def.DemoteThreshold, "Accuracy at or below which a topic is demoted")
	fs.Int(KeyEmergencyWindow, def.EmergencyWindow, "Consecutive misses that force a demotion")
}

// NewViper binds fs and the environment to a fresh viper instance and reads
// the optional config file.
func NewViper(fs *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	if fs != nil {
		_ = v.BindPFlags(fs)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("studybuddy")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/studybuddy")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// Load resolves a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	def := adaptive.DefaultConfig()
	v.SetDefault(KeyRetrieval, BackendMemory)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLang, "en")
	v.SetDefault(KeyLLMTimeout, 30*time.Second)
	v.SetDefault(KeyPineconeIndex, "studybuddy")
	v.SetDefault(KeyPineconeNamespace, "studybuddy")
	v.SetDefault(KeyEmbeddingModel, "text-embedding-3-small")
	v.SetDefault(KeyMinAttempts, def.MinAttempts)
	v.SetDefault(KeyPromoteThreshold, def.PromoteThreshold)
	v.SetDefault(KeyDemoteThreshold, def.DemoteThreshold)
	v.SetDefault(KeyEmergencyWindow, def.EmergencyWindow)
	v.SetDefault(KeyMaxHintLevel, def.MaxHintLevel)

	cfg := Config{
		QuestionsPath: v.GetString(KeyQuestions),
		TutorialsPath: v.GetString(KeyTutorials),
		ExercisesPath: v.GetString(KeyExercises),
		Retrieval: RetrievalConfig{
			Backend: strings.ToLower(v.GetString(KeyRetrieval)),
			Pinecone: retrieval.PineconeConfig{
				APIKey:          firstNonEmpty(v.GetString(KeyPineconeAPIKey), os.Getenv("PINECONE_API_KEY")),
				IndexName:       v.GetString(KeyPineconeIndex),
				NamespacePrefix: v.GetString(KeyPineconeNamespace),
				OpenAIAPIKey:    firstNonEmpty(v.GetString(KeyEmbeddingAPIKey), v.GetString(KeyLLMOpenAIKey), os.Getenv("OPENAI_API_KEY")),
				EmbeddingModel:  v.GetString(KeyEmbeddingModel),
			},
		},
		Seed: v.GetUint64(KeySeed),
		Adaptive: adaptive.Config{
			MinAttempts:      v.GetInt(KeyMinAttempts),
			PromoteThreshold: v.GetFloat64(KeyPromoteThreshold),
			DemoteThreshold:  v.GetFloat64(KeyDemoteThreshold),
			EmergencyWindow:  v.GetInt(KeyEmergencyWindow),
			MaxHintLevel:     v.GetInt(KeyMaxHintLevel),
		},
		LLM:       loadLLM(v),
		DBPath:    v.GetString(KeyDB),
		NoJournal: v.GetBool(KeyNoJournal),
		LogLevel:  strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat: strings.ToLower(v.GetString(KeyLogFormat)),
		Language:  v.GetString(KeyLang),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadLLM builds the provider config. An unset provider falls back to the
// first standard API key found in the environment, then to "none".
func loadLLM(v *viper.Viper) llm.Config {
	provider := strings.ToLower(v.GetString(KeyLLMProvider))

	cfg := llm.DefaultConfig()
	if provider == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
			slog.Debug("discovered LLM provider from environment", "provider", cfg.Provider)
		}
	} else {
		cfg.Provider = provider
	}

	cfg.Anthropic.APIKey = firstNonEmpty(v.GetString(KeyLLMAnthropicKey), cfg.Anthropic.APIKey)
	cfg.Anthropic.Model = firstNonEmpty(v.GetString(KeyLLMAnthropicModel), cfg.Anthropic.Model)
	cfg.OpenAI.APIKey = firstNonEmpty(v.GetString(KeyLLMOpenAIKey), cfg.OpenAI.APIKey)
	cfg.OpenAI.Model = firstNonEmpty(v.GetString(KeyLLMOpenAIModel), cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = firstNonEmpty(v.GetString(KeyLLMOpenAIBaseURL), cfg.OpenAI.BaseURL)
	cfg.Gemini.APIKey = firstNonEmpty(v.GetString(KeyLLMGeminiKey), cfg.Gemini.APIKey)
	cfg.Gemini.Model = firstNonEmpty(v.GetString(KeyLLMGeminiModel), cfg.Gemini.Model)
	cfg.OpenRouter.APIKey = firstNonEmpty(v.GetString(KeyLLMOpenRouterKey), cfg.OpenRouter.APIKey)
	cfg.OpenRouter.Model = firstNonEmpty(v.GetString(KeyLLMOpenRouterModel), cfg.OpenRouter.Model)

	if n := v.GetInt(KeyLLMRetryMaxAttempts); n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	if d := v.GetDuration(KeyLLMTimeout); d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

// Validate checks enumerations and threshold ranges.
func (c Config) Validate() error {
	switch c.Retrieval.Backend {
	case BackendMemory, BackendNone:
	case BackendPinecone:
		if c.Retrieval.Pinecone.APIKey == "" {
			return fmt.Errorf("STUDYBUDDY_PINECONE_API_KEY is required for the pinecone backend")
		}
		if c.Retrieval.Pinecone.OpenAIAPIKey == "" {
			return fmt.Errorf("STUDYBUDDY_EMBEDDING_API_KEY is required for the pinecone backend")
		}
	default:
		return fmt.Errorf("unknown retrieval backend: %q", c.Retrieval.Backend)
	}

	a := c.Adaptive
	if a.MinAttempts < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMinAttempts, a.MinAttempts)
	}
	if a.PromoteThreshold < 0 || a.PromoteThreshold > 1 || a.DemoteThreshold < 0 || a.DemoteThreshold > 1 {
		return fmt.Errorf("thresholds must be within [0, 1]")
	}
	if a.DemoteThreshold >= a.PromoteThreshold {
		return fmt.Errorf("%s (%.2f) must be below %s (%.2f)",
			KeyDemoteThreshold, a.DemoteThreshold, KeyPromoteThreshold, a.PromoteThreshold)
	}
	if a.MaxHintLevel < 1 || a.MaxHintLevel > 3 {
		return fmt.Errorf("%s must be between 1 and 3, got %d", KeyMaxHintLevel, a.MaxHintLevel)
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// Rand returns the random source for question selection.
func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
