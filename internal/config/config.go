package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the menurank configuration shared by the search API, the semantic server and the CLI.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Auth           AuthConfig           `yaml:"auth"`
	CORS           CORSConfig           `yaml:"cors"`
	Index          IndexConfig          `yaml:"index"`
	Semantic       SemanticConfig       `yaml:"semantic"`
	Taxonomy       TaxonomyConfig       `yaml:"taxonomy"`
	SemanticServer SemanticServerConfig `yaml:"semantic_server"`
	Embedding      EmbeddingConfig      `yaml:"embedding"`
	Database       DatabaseConfig       `yaml:"database"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds the browser origins allowed to call the APIs.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig holds the Solr index client and eDismax settings.
type IndexConfig struct {
	BaseURL    string `yaml:"base_url"`
	Core       string `yaml:"core"`
	TimeoutSec int    `yaml:"timeout_sec"`
	Rows       int    `yaml:"rows"`
	MaxRows    int    `yaml:"max_rows"`
	QF         string `yaml:"qf"`
	PF         string `yaml:"pf"`
	MM         string `yaml:"mm"`
	Origin     string `yaml:"origin"`
}

// SemanticConfig holds the semantic service client settings.
// Fusion is enabled only when BaseURL is set.
type SemanticConfig struct {
	BaseURL            string `yaml:"base_url"`
	TimeoutSec         int    `yaml:"timeout_sec"`
	TopK               int    `yaml:"top_k"`
	RefreshIntervalSec int    `yaml:"refresh_interval_sec"`
}

// Enabled reports whether a semantic service is configured.
func (s SemanticConfig) Enabled() bool { return s.BaseURL != "" }

// TaxonomyConfig points to an optional taxonomy YAML. Empty means the built-in tables.
type TaxonomyConfig struct {
	Path string `yaml:"path"`
}

// SemanticServerConfig holds the semantic rerank server settings.
type SemanticServerConfig struct {
	Port           int     `yaml:"port"`
	KeywordWeight  float64 `yaml:"keyword_weight"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	TopK           int     `yaml:"top_k"`
	Workers        int     `yaml:"workers"`
	CacheTTLSec    int     `yaml:"cache_ttl_sec"` // 0 = no expiry
}

// EmbeddingConfig holds the embedding provider settings used by the semantic server.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"`
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	QueryInstruction    string `yaml:"query_instruction"`
	DocumentInstruction string `yaml:"document_instruction"`
}

// DatabaseConfig holds the Redis connection used for the embedding cache and registry.
// No addrs means the semantic server runs without a cache.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first; existing variables win.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.Core == "" {
		c.Index.Core = "menu"
	}
	if c.Index.TimeoutSec <= 0 {
		c.Index.TimeoutSec = 10
	}
	if c.Index.Rows <= 0 {
		c.Index.Rows = 50
	}
	if c.Index.MaxRows <= 0 {
		c.Index.MaxRows = 200
	}
	if c.Semantic.TimeoutSec <= 0 {
		c.Semantic.TimeoutSec = 5
	}
	if c.Semantic.TopK <= 0 {
		c.Semantic.TopK = 50
	}
	if c.Semantic.RefreshIntervalSec <= 0 {
		c.Semantic.RefreshIntervalSec = 30
	}
	if c.SemanticServer.Port <= 0 {
		c.SemanticServer.Port = 8002
	}
	if c.SemanticServer.KeywordWeight <= 0 && c.SemanticServer.SemanticWeight <= 0 {
		c.SemanticServer.KeywordWeight = 0.6
		c.SemanticServer.SemanticWeight = 0.4
	}
	if c.SemanticServer.TopK <= 0 {
		c.SemanticServer.TopK = 10
	}
	if c.SemanticServer.Workers <= 0 {
		c.SemanticServer.Workers = 8
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validPort("http.port", c.HTTP.Port); err != nil {
		return err
	}
	if err := validPort("semantic_server.port", c.SemanticServer.Port); err != nil {
		return err
	}
	if c.Index.BaseURL == "" {
		return fmt.Errorf("index.base_url is required")
	}
	if err := validURL("index.base_url", c.Index.BaseURL); err != nil {
		return err
	}
	if c.Semantic.BaseURL != "" {
		if err := validURL("semantic.base_url", c.Semantic.BaseURL); err != nil {
			return err
		}
	}
	if c.Index.Rows > c.Index.MaxRows {
		return fmt.Errorf("index.rows (%d) must not exceed index.max_rows (%d)", c.Index.Rows, c.Index.MaxRows)
	}
	if c.SemanticServer.KeywordWeight < 0 || c.SemanticServer.SemanticWeight < 0 {
		return fmt.Errorf("semantic_server weights must be non-negative")
	}
	switch c.Embedding.Provider {
	case "openai":
	default:
		return fmt.Errorf("embedding.provider must be \"openai\", got %q", c.Embedding.Provider)
	}
	return nil
}

// ValidateSemanticServer checks the settings only the semantic server needs.
func (c *Config) ValidateSemanticServer() error {
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required")
	}
	return nil
}

func validPort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}

func validURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
