// Package conf loads the chatstream configuration from a YAML file and
// environment variables.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/emberlink/chatstream/internal/log"
)

// Config is the top-level chatstream configuration.
type Config struct {
	API       APIConfig       `json:"api" yaml:"api" mapstructure:"api"`
	Chat      ChatConfig      `json:"chat" yaml:"chat" mapstructure:"chat"`
	Simulator SimulatorConfig `json:"simulator" yaml:"simulator" mapstructure:"simulator"`
	Log       log.Config      `json:"log" yaml:"log" mapstructure:"log"`
}

// APIConfig locates the Responses API endpoint.
type APIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is never serialized; set it via CHATSTREAM_API_API_KEY or the
	// config file.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ChatConfig carries per-turn request defaults.
type ChatConfig struct {
	Model           string   `json:"model" yaml:"model" mapstructure:"model"`
	Instructions    string   `json:"instructions" yaml:"instructions" mapstructure:"instructions"`
	Temperature     *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" mapstructure:"temperature"`
	MaxOutputTokens *int64   `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty" mapstructure:"max_output_tokens"`
}

// SimulatorConfig shapes the built-in simulator used by chat --simulate.
type SimulatorConfig struct {
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size"`
	DelayMS   int `json:"delay_ms" yaml:"delay_ms" mapstructure:"delay_ms"`
}

// Load reads the configuration. Sources, in ascending precedence: built-in
// defaults, the config file, CHATSTREAM_* environment variables. The config
// file is optional; CHATSTREAM_CONFIG overrides the search path.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("chatstream")
	v.SetConfigType("yaml")

	if path := os.Getenv("CHATSTREAM_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "chatstream"))
		}
	}

	v.SetEnvPrefix("CHATSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.openai.com/v1")
	// Register the key so AutomaticEnv can populate it on Unmarshal.
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.timeout_seconds", 120)
	v.SetDefault("chat.model", "gpt-4.1")
	v.SetDefault("simulator.chunk_size", 8)
	v.SetDefault("simulator.delay_ms", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate returns the list of configuration problems, empty when valid.
func (c Config) Validate() []string {
	var problems []string

	if c.API.BaseURL == "" {
		problems = append(problems, "api.base_url cannot be empty")
	}

	if c.API.TimeoutSeconds < 0 {
		problems = append(problems, "api.timeout_seconds cannot be negative")
	}

	if c.Chat.Model == "" {
		problems = append(problems, "chat.model cannot be empty")
	}

	if c.Simulator.ChunkSize <= 0 {
		problems = append(problems, "simulator.chunk_size must be positive")
	}

	return problems
}
