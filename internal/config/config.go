// Package config resolves Arya's runtime settings from command-line flags,
// ARYA_* environment variables and an optional YAML file, in that order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/llm"
	"github.com/abhisek/arya/internal/store"
)

// Keys shared by flags, environment and the config file.
const (
	KeyDB          = "db"
	KeyLogFile     = "log-file"
	KeyLogLevel    = "log-level"
	KeyQuestions   = "questions"
	KeyProvider    = "llm.provider"
	KeyModel       = "llm.model"
	KeyTimeout     = "llm.timeout"
	KeyMaxAttempts = "llm.max-attempts"
)

// flagKeys maps flag names onto keys that differ from them.
var flagKeys = map[string]string{
	"provider": KeyProvider,
	"model":    KeyModel,
}

// Config is the resolved configuration for one run.
type Config struct {
	LLM               llm.Config
	DBPath            string
	LogFile           string
	LogLevel          string
	QuestionsPerLevel int

	// File is the config file that was read, if any.
	File string
}

// ErrQuestionsOutOfRange is returned when the questions setting is
// outside the allowed range.
var ErrQuestionsOutOfRange = fmt.Errorf("questions per level must be between %d and %d",
	interview.MinQuestionsPerLevel, interview.MaxQuestionsPerLevel)

// DefaultDirs lists the directories searched for config.yaml.
func DefaultDirs() []string {
	var dirs []string
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		dirs = append(dirs, filepath.Join(x, "arya"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "arya"))
	}
	return dirs
}

// Load resolves the configuration. flags may be nil. When dirs is empty
// DefaultDirs is searched.
func Load(flags *pflag.FlagSet, dirs ...string) (Config, error) {
	v := newViper(flags, dirs)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		LLM:               llm.ConfigFromEnv(),
		DBPath:            v.GetString(KeyDB),
		LogFile:           v.GetString(KeyLogFile),
		LogLevel:          v.GetString(KeyLogLevel),
		QuestionsPerLevel: v.GetInt(KeyQuestions),
		File:              v.ConfigFileUsed(),
	}

	if p := v.GetString(KeyProvider); p != "" {
		cfg.LLM.Provider = p
	}
	if m := v.GetString(KeyModel); m != "" {
		setModel(&cfg.LLM, m)
	}
	if v.IsSet(KeyTimeout) {
		d := v.GetDuration(KeyTimeout)
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q", KeyTimeout, v.GetString(KeyTimeout))
		}
		cfg.LLM.Timeout = d
	}
	if v.IsSet(KeyMaxAttempts) {
		cfg.LLM.Retry.MaxAttempts = v.GetInt(KeyMaxAttempts)
	}

	if cfg.QuestionsPerLevel < interview.MinQuestionsPerLevel || cfg.QuestionsPerLevel > interview.MaxQuestionsPerLevel {
		return Config{}, fmt.Errorf("%w, got %d", ErrQuestionsOutOfRange, cfg.QuestionsPerLevel)
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBPath = p
	} else if err := store.EnsureDir(cfg.DBPath); err != nil {
		return Config{}, fmt.Errorf("create database dir: %w", err)
	}

	return cfg, nil
}

func newViper(flags *pflag.FlagSet, dirs []string) *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyQuestions, interview.DefaultQuestionsPerLevel)
	v.SetDefault(KeyLogLevel, "info")

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok {
				key = f.Name
			}
			_ = v.BindPFlag(key, f)
		})
	}

	v.SetEnvPrefix("ARYA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	return v
}

// setModel overrides the model of the selected provider.
func setModel(c *llm.Config, model string) {
	switch c.Provider {
	case llm.ProviderGemini:
		c.Gemini.Model = model
	case llm.ProviderOpenAI:
		c.OpenAI.Model = model
	case llm.ProviderAnthropic:
		c.Anthropic.Model = model
	case llm.ProviderOpenRouter:
		c.OpenRouter.Model = model
	}
}

// Describe returns a one-line summary suitable for a log field.
func (c Config) Describe() string {
	return fmt.Sprintf("provider=%s db=%s questions=%d timeout=%s",
		c.LLM.Provider, c.DBPath, c.QuestionsPerLevel, c.LLM.Timeout.Round(time.Second))
}
