package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Config{
		OllamaURL:   "http://localhost:11434",
		Model:       "codellama",
		MaxTokens:   2048,
		Temperature: 0.7,
	}, cfg)
}

func TestRead_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localai.yaml")
	writeFile(t, path, "ollamaUrl: http://gpu-box:11434\nmodel: llama3\n")

	v := viper.New()
	require.NoError(t, Read(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.OllamaURL)
	assert.Equal(t, "llama3", cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
}

func TestRead_MissingDefaultFileIsNotAnError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, Read(v, ""))
	assert.Empty(t, v.ConfigFileUsed())
}

func TestRead_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Read(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRead_EnvOverride(t *testing.T) {
	t.Setenv("LOCALAI_MODEL", "mistral")

	path := filepath.Join(t.TempDir(), "localai.yaml")
	writeFile(t, path, "model: llama3\n")

	v := viper.New()
	require.NoError(t, Read(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Model)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "LOCALAI_TEST_DOTENV=from-dotenv\n")
	t.Setenv("LOCALAI_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("LOCALAI_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("LOCALAI_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestValidate(t *testing.T) {
	valid := Config{OllamaURL: "http://localhost:11434", Model: "codellama", MaxTokens: 1, Temperature: 0}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "relative url", mutate: func(c *Config) { c.OllamaURL = "localhost:11434" }},
		{name: "ftp url", mutate: func(c *Config) { c.OllamaURL = "ftp://localhost" }},
		{name: "empty model", mutate: func(c *Config) { c.Model = "  " }},
		{name: "zero max tokens", mutate: func(c *Config) { c.MaxTokens = 0 }},
		{name: "temperature too high", mutate: func(c *Config) { c.Temperature = 2.5 }},
		{name: "negative temperature", mutate: func(c *Config) { c.Temperature = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
