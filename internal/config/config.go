package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	DefaultProdPatterns     = []string{"prod", "production", "prd", "live"}
	DefaultSystemNamespaces = []string{"kube-*", "openshift-*"}
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultConcurrency    = 3
	DefaultLogLevel       = "info"
)

// AppConfig holds all configuration for kubetree.
type AppConfig struct {
	Kubeconfig         string        `yaml:"kubeconfig"`
	Context            string        `yaml:"context"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	Concurrency        int           `yaml:"concurrency"`
	StripManagedFields bool          `yaml:"strip_managed_fields"`
	ProdPatterns       []string      `yaml:"prod_patterns"`
	SystemNamespaces   []string      `yaml:"system_namespaces"`
	Pager              string        `yaml:"pager"`
	Log                LogConfig     `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log output. Empty means stderr for CLI commands and
	// nowhere for the TUI.
	File string `yaml:"file"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		RequestTimeout:   DefaultRequestTimeout,
		Concurrency:      DefaultConcurrency,
		ProdPatterns:     DefaultProdPatterns,
		SystemNamespaces: DefaultSystemNamespaces,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DefaultPath returns ~/.config/kubetree/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kubetree", "config.yaml")
}

// LoadConfig loads from the default path ~/.config/kubetree/config.yaml.
func LoadConfig() (*AppConfig, error) {
	path := DefaultPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom loads config from a specific file path.
// Returns defaults if the file does not exist.
func LoadConfigFrom(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Apply defaults for zero values
	if len(cfg.ProdPatterns) == 0 {
		cfg.ProdPatterns = DefaultProdPatterns
	}
	if cfg.SystemNamespaces == nil {
		cfg.SystemNamespaces = DefaultSystemNamespaces
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	return cfg, nil
}

// IsSystemNamespace checks if a namespace matches any system pattern.
// Supports glob matching (e.g. "openshift-*").
func IsSystemNamespace(namespace string, patterns []string) bool {
	if namespace == "" || len(patterns) == 0 {
		return false
	}
	for _, p := range patterns {
		matched, err := filepath.Match(p, namespace)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// IsProdNamespace checks if a namespace name matches production patterns.
// Matching is done by segment (split on -._) to avoid false positives
// like "product-api" matching "prod".
func IsProdNamespace(namespace string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = DefaultProdPatterns
	}
	ns := strings.ToLower(namespace)
	segments := splitSegments(ns)

	for _, p := range patterns {
		p = strings.ToLower(p)
		for _, seg := range segments {
			if seg == p {
				return true
			}
		}
	}
	return false
}

// splitSegments splits a namespace name on common separators.
func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '.' || r == '_'
	})
}
