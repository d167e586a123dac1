package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appDirName       = "x-screen-split"
	settingsFileName = "settings"
	envPrefix        = "XSCREENSPLIT"

	DefaultProfile     = "configs"
	DefaultPrefix      = "V-"
	DefaultBinary      = "xrandr"
	DefaultCallTimeout = 5 * time.Second
	DefaultLogLevel    = "info"
)

// Settings are the application settings. Every field can be set in
// settings.yaml inside the config directory or through XSCREENSPLIT_*
// environment variables (e.g. XSCREENSPLIT_CALL_TIMEOUT=2s).
type Settings struct {
	XrandrBinary   string        `mapstructure:"xrandr_binary"`
	CallTimeout    time.Duration `mapstructure:"call_timeout"`
	Prefix         string        `mapstructure:"prefix"`
	ProfileDir     string        `mapstructure:"profile_dir"`
	DefaultProfile string        `mapstructure:"default_profile"`
	LogLevel       string        `mapstructure:"log_level"`

	// File is the settings file that was read, empty when none existed.
	File string `mapstructure:"-"`
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/x-screen-split, falling back to
// ~/.config/x-screen-split.
func DefaultConfigDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}

// LoadSettings reads settings from dir (DefaultConfigDir when empty) and the
// environment. A missing settings file is not an error.
func LoadSettings(dir string) (*Settings, error) {
	if strings.TrimSpace(dir) == "" {
		d, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	v := viper.New()
	v.SetConfigName(settingsFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("xrandr_binary", DefaultBinary)
	v.SetDefault("call_timeout", DefaultCallTimeout)
	v.SetDefault("prefix", DefaultPrefix)
	v.SetDefault("profile_dir", dir)
	v.SetDefault("default_profile", DefaultProfile)
	v.SetDefault("log_level", DefaultLogLevel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings in %s: %w", dir, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.File = v.ConfigFileUsed()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks values that cannot be defaulted.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.XrandrBinary) == "" {
		return &ValidationError{Path: "xrandr_binary", Err: errors.New("must not be empty")}
	}
	if s.CallTimeout <= 0 {
		return &ValidationError{Path: "call_timeout", Err: fmt.Errorf("must be positive, got %s", s.CallTimeout)}
	}
	if strings.TrimSpace(s.Prefix) == "" {
		return &ValidationError{Path: "prefix", Err: errors.New("must not be empty")}
	}
	if strings.TrimSpace(s.ProfileDir) == "" {
		return &ValidationError{Path: "profile_dir", Err: errors.New("must not be empty")}
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("unknown level %q", s.LogLevel)}
	}
	return nil
}

// ValidationError reports an invalid settings value.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
