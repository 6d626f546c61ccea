package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Settings is the persisted key/value store behind the localai settings.
type Settings struct {
	v           *viper.Viper
	defaultPath string
}

// NewSettings wraps v. Writes go to the config file v loaded, or to
// defaultPath when none was loaded.
func NewSettings(v *viper.Viper, defaultPath string) *Settings {
	return &Settings{v: v, defaultPath: defaultPath}
}

// Get returns the effective value of key, or def when the key is unknown.
func (s *Settings) Get(key string, def any) any {
	canonical, ok := CanonicalKey(key)
	if !ok || !s.v.IsSet(canonical) {
		return def
	}
	return s.v.Get(canonical)
}

func (s *Settings) Load() (Config, error) {
	return Load(s.v)
}

// Path returns the file Set writes to.
func (s *Settings) Path() string {
	if used := s.v.ConfigFileUsed(); used != "" {
		return used
	}
	return s.defaultPath
}

// Set validates value for key, stores it and persists the settings file.
func (s *Settings) Set(key string, value any) error {
	canonical, ok := CanonicalKey(key)
	if !ok {
		return fmt.Errorf("unknown setting: %s (known: %s)", key, strings.Join(Keys(), ", "))
	}
	coerced, err := coerce(canonical, value)
	if err != nil {
		return err
	}
	if err := s.write(canonical, coerced); err != nil {
		return err
	}
	s.v.Set(canonical, coerced)
	return nil
}

// write stores key in the settings file. Only values already in the file and
// key itself are written; defaults and environment overrides stay out.
func (s *Settings) write(key string, value any) error {
	path := s.Path()
	if path == "" {
		return errors.New("no settings file to write")
	}

	file := viper.New()
	file.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		file.SetConfigType("yaml")
	}
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read settings: %w", err)
	}
	file.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// CanonicalKey matches key case-insensitively against Keys.
func CanonicalKey(key string) (string, bool) {
	for _, known := range Keys() {
		if strings.EqualFold(known, strings.TrimSpace(key)) {
			return known, true
		}
	}
	return "", false
}

func coerce(key string, value any) (any, error) {
	switch key {
	case KeyOllamaURL:
		raw, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		raw = strings.TrimSpace(raw)
		if err := validateURL(raw); err != nil {
			return nil, err
		}
		return raw, nil
	case KeyModel:
		raw, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, errors.New("invalid model: must not be empty")
		}
		return raw, nil
	case KeyMaxTokens:
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid maxTokens: %d", n)
		}
		return n, nil
	case KeyTemperature:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		if f < 0 || f > 2 {
			return nil, fmt.Errorf("invalid temperature: %g", f)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown setting: %s", key)
	}
}
