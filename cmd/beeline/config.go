package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/nicolagi/beeminder"
	"gopkg.in/yaml.v3"
)

const (
	apiKeyVar = "BEEMINDER_API_KEY"
	editorVar = "EDITOR"
	configVar = "BEELINE_CONFIG"
	debugVar  = "BEELINE_DEBUG"
)

// ConfigError is fatal and reported before anything else is attempted.
type ConfigError struct {
	Source string // Environment variable or file name
	Msg    string
	Err    error
}

func (e *ConfigError) Error() string {
	s := fmt.Sprintf("configuration: %s: %s", e.Source, e.Msg)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// config is read once at startup and passed to whatever needs it.
type config struct {
	// Only ever read from the environment.
	APIKey string `yaml:"-"`

	Editor   string `yaml:"editor"`
	Endpoint string `yaml:"endpoint"`
	User     string `yaml:"user"`
	WireLog  string `yaml:"wire_log"`
	Debug    bool   `yaml:"debug"`

	// How many of the most recent datapoints the edit command works on.
	Recent int `yaml:"recent"`

	// Where edit buffers are saved when they can't be applied.
	RecoveryDir string `yaml:"recovery_dir"`
}

func defaultEditor() string {
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// xdgDir returns $xdgVar, or $HOME/fallback, or the empty string.
func xdgDir(getenv func(string) string, xdgVar, fallback string) string {
	if dir := getenv(xdgVar); dir != "" {
		return dir
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, fallback)
	}
	return ""
}

// loadConfig builds the configuration from the optional YAML file and the environment, in increasing order of
// precedence. The API key must be in the environment.
func loadConfig(getenv func(string) string) (*config, error) {
	cfg := &config{
		APIKey:   getenv(apiKeyVar),
		Editor:   defaultEditor(),
		Endpoint: beeminder.DefaultEndpoint,
		User:     "me",
		Recent:   20,
	}
	if cfg.APIKey == "" {
		return nil, &ConfigError{
			Source: apiKeyVar,
			Msg:    "not set, get your personal auth token from https://www.beeminder.com/api/v1/auth_token.json",
		}
	}

	pathname := getenv(configVar)
	explicit := pathname != ""
	if !explicit {
		if dir := xdgDir(getenv, "XDG_CONFIG_HOME", ".config"); dir != "" {
			pathname = filepath.Join(dir, "beeline", "config.yaml")
		}
	}
	if pathname != "" {
		b, err := os.ReadFile(pathname)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, &ConfigError{Source: pathname, Msg: "invalid YAML", Err: err}
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, &ConfigError{Source: pathname, Msg: "could not read", Err: err}
		}
	}

	if v := getenv(editorVar); v != "" {
		cfg.Editor = v
	}
	if v := getenv(debugVar); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &ConfigError{Source: debugVar, Msg: "not a boolean", Err: err}
		}
		cfg.Debug = debug
	}
	if cfg.Recent <= 0 {
		return nil, &ConfigError{Source: "recent", Msg: fmt.Sprintf("must be positive, got %d", cfg.Recent)}
	}
	if cfg.RecoveryDir == "" {
		if dir := xdgDir(getenv, "XDG_CACHE_HOME", ".cache"); dir != "" {
			cfg.RecoveryDir = filepath.Join(dir, "beeline")
		} else {
			cfg.RecoveryDir = filepath.Join(os.TempDir(), "beeline")
		}
	}
	return cfg, nil
}

// clientOptions translates the configuration for beeminder.NewClient.
func (cfg *config) clientOptions() []beeminder.ClientOption {
	opts := []beeminder.ClientOption{
		beeminder.WithEndpoint(cfg.Endpoint),
		beeminder.WithUser(cfg.User),
	}
	if cfg.WireLog != "" {
		opts = append(opts, beeminder.WithWireLog(cfg.WireLog))
	}
	return opts
}
