package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/locguard/internal/l10n"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const appName = "locguard"

// DotEnvFile is read into the environment by Load when it exists. Variables
// already set in the environment win.
var DotEnvFile = ".env"

var (
	validFormats = []string{"text", "json", "markdown", "sarif"}
	validFailOn  = []string{"none", "low", "medium", "high"}
)

// Config represents the locguard configuration.
type Config struct {
	Format       string   `json:"format"`
	FailOn       string   `json:"failOn"`
	Scope        string   `json:"scope"`
	RulesFile    string   `json:"rulesFile,omitempty"`
	ContextLines int      `json:"contextLines"`
	Include      []string `json:"include"`
	Exclude      []string `json:"exclude"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:       "text",
		FailOn:       "none",
		Scope:        string(l10n.ScopeGlobal),
		ContextLines: 0,
		Include:      []string{"**/*"},
		Exclude:      []string{"Pods/**", "Carthage/**"},
	}
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("invalid format %q (want one of %s)", c.Format, strings.Join(validFormats, ", "))
	}
	if !slices.Contains(validFailOn, c.FailOn) {
		return fmt.Errorf("invalid failOn %q (want one of %s)", c.FailOn, strings.Join(validFailOn, ", "))
	}
	if _, err := l10n.ParseScope(c.Scope); err != nil {
		return err
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("contextLines must not be negative")
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for locguard.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "AppData", "Roaming", appName), nil
	default:
		return filepath.Join(home, ".config", appName), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags (only non-zero values
// should be set). The result is validated.
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	loadDotEnv()
	mergeEnv(&cfg)
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv() {
	if DotEnvFile == "" {
		return
	}
	if err := godotenv.Load(DotEnvFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", DotEnvFile).Msg("Ignoring unreadable .env file")
		}
		return
	}
	log.Debug().Str("file", DotEnvFile).Msg("Loaded environment file")
}

func mergeFile(dst *Config, src Config) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if src.Scope != "" {
		dst.Scope = src.Scope
	}
	if src.RulesFile != "" {
		dst.RulesFile = src.RulesFile
	}
	if src.ContextLines > 0 {
		dst.ContextLines = src.ContextLines
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("LOCGUARD_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOCGUARD_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("LOCGUARD_SCOPE"); v != "" {
		cfg.Scope = v
	}
	if v := os.Getenv("LOCGUARD_RULES"); v != "" {
		cfg.RulesFile = v
	}
	if v := os.Getenv("LOCGUARD_CONTEXT_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ContextLines = n
		} else {
			log.Warn().Str("value", v).Msg("Ignoring non-integer LOCGUARD_CONTEXT_LINES")
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is
// unknown. List keys take comma-separated values.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "scope":
		cfg.Scope = value
	case "rulesFile":
		cfg.RulesFile = value
	case "contextLines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("contextLines must be an integer: %w", err)
		}
		cfg.ContextLines = n
	case "include":
		cfg.Include = SplitList(value)
	case "exclude":
		cfg.Exclude = SplitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
