package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the loom configuration.
type Config struct {
	// Reviewers lists provider:model pairs used for consensus review.
	Reviewers []string `json:"reviewers"`
	// ReviewDeadlineSeconds is the shared deadline for one review cycle.
	ReviewDeadlineSeconds int `json:"reviewDeadlineSeconds"`
	// MaxReviewCycles bounds the fix-and-rereview loop.
	MaxReviewCycles int `json:"maxReviewCycles"`
	// SimilarityThreshold is the Jaccard cutoff for duplicate findings.
	SimilarityThreshold float64 `json:"similarityThreshold"`
	// LineTolerance is the duplicate line-anchor window.
	LineTolerance int           `json:"lineTolerance"`
	Format        string        `json:"format"`
	ConfigsPath   string        `json:"configsPath,omitempty"`
	OutputPath    string        `json:"outputPath,omitempty"`
	Cache         CacheConfig   `json:"cache"`
	Privacy       PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Reviewers:             []string{"openai:gpt-4o", "gemini:gemini-1.5-pro"},
		ReviewDeadlineSeconds: 120,
		MaxReviewCycles:       3,
		SimilarityThreshold:   0.6,
		LineTolerance:         3,
		Format:                "text",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ParseReviewerSpec splits a "provider:model" spec.
func ParseReviewerSpec(spec string) (provider, model string, err error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid reviewer spec %q: expected provider:model", spec)
	}
	return parts[0], parts[1], nil
}

// ConfigDir returns the platform-appropriate config directory for loom.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "loom"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "loom"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "loom"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "loom"), nil
	default:
		return filepath.Join(home, ".config", "loom"), nil
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
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
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
// should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.Reviewers) > 0 {
		dst.Reviewers = src.Reviewers
	}
	if src.ReviewDeadlineSeconds > 0 {
		dst.ReviewDeadlineSeconds = src.ReviewDeadlineSeconds
	}
	if src.MaxReviewCycles > 0 {
		dst.MaxReviewCycles = src.MaxReviewCycles
	}
	if src.SimilarityThreshold > 0 {
		dst.SimilarityThreshold = src.SimilarityThreshold
	}
	if src.LineTolerance > 0 {
		dst.LineTolerance = src.LineTolerance
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.ConfigsPath != "" {
		dst.ConfigsPath = src.ConfigsPath
	}
	if src.OutputPath != "" {
		dst.OutputPath = src.OutputPath
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("LOOM_REVIEWERS"); v != "" {
		cfg.Reviewers = splitComma(v)
	}
	if v := os.Getenv("LOOM_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOOM_CONFIGS_PATH"); v != "" {
		cfg.ConfigsPath = v
	}
	if v := os.Getenv("LOOM_REVIEW_DEADLINE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReviewDeadlineSeconds = n
		}
	}
	if v := os.Getenv("LOOM_MAX_REVIEW_CYCLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxReviewCycles = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["reviewers"]; ok && v != "" {
		cfg.Reviewers = splitComma(v)
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["configsPath"]; ok && v != "" {
		cfg.ConfigsPath = v
	}
	if v, ok := overrides["outputPath"]; ok && v != "" {
		cfg.OutputPath = v
	}
	if v, ok := overrides["reviewDeadlineSeconds"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReviewDeadlineSeconds = n
		}
	}
	if v, ok := overrides["maxReviewCycles"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxReviewCycles = n
		}
	}
	if v, ok := overrides["similarityThreshold"]; ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SimilarityThreshold = f
		}
	}
	if v, ok := overrides["lineTolerance"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LineTolerance = n
		}
	}
}

// SetField sets a single config field by key name. Returns error if key is
// unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "reviewers":
		cfg.Reviewers = splitComma(value)
	case "format":
		cfg.Format = value
	case "configsPath":
		cfg.ConfigsPath = value
	case "outputPath":
		cfg.OutputPath = value
	case "reviewDeadlineSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("reviewDeadlineSeconds must be an integer: %w", err)
		}
		cfg.ReviewDeadlineSeconds = n
	case "maxReviewCycles":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxReviewCycles must be an integer: %w", err)
		}
		cfg.MaxReviewCycles = n
	case "similarityThreshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("similarityThreshold must be a number: %w", err)
		}
		cfg.SimilarityThreshold = f
	case "lineTolerance":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("lineTolerance must be an integer: %w", err)
		}
		cfg.LineTolerance = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
