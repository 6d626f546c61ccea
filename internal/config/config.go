package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyOllamaURL   = "ollamaUrl"
	KeyModel       = "model"
	KeyMaxTokens   = "maxTokens"
	KeyTemperature = "temperature"

	DefaultOllamaURL   = "http://localhost:11434"
	DefaultModel       = "codellama"
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7

	configName = "localai"
	envPrefix  = "LOCALAI"
)

type Config struct {
	OllamaURL   string  `mapstructure:"ollamaUrl" yaml:"ollamaUrl"`
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"maxTokens" yaml:"maxTokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// Keys lists the settings localai understands, in display order.
func Keys() []string {
	return []string{KeyOllamaURL, KeyModel, KeyMaxTokens, KeyTemperature}
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOllamaURL, DefaultOllamaURL)
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeyMaxTokens, DefaultMaxTokens)
	v.SetDefault(KeyTemperature, DefaultTemperature)
}

// Read points v at configFile, or at localai.yaml in the working directory
// or $HOME/.config/localai when configFile is empty, and reads it. A missing
// config file is not an error.
func Read(v *viper.Viper, configFile string) error {
	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/localai")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// DefaultPath is where settings are written when no config file was loaded.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configName + ".yaml"
	}
	return filepath.Join(home, ".config", "localai", configName+".yaml")
}

// LoadDotEnv loads environment variables from path. A missing file is ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validateURL(c.OllamaURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("invalid model: must not be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("invalid maxTokens: %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid temperature: %g", c.Temperature)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid ollamaUrl: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid ollamaUrl: %s", raw)
	}
	return nil
}
