// Package config provides configuration management for the site build tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no -config flag is given and the file exists.
const DefaultPath = "configs/site.yaml"

// Product id strategies.
const (
	IDStrategyVendor   = "vendor"
	IDStrategySequence = "sequence"
)

// Configuration validation errors.
var (
	ErrMissingCatalogURL    = errors.New("vendor.catalog_url is required")
	ErrMissingDetailURL     = errors.New("vendor.detail_url is required")
	ErrInvalidTimeout       = errors.New("vendor timeouts must be at least 1 second")
	ErrInvalidMaxBody       = errors.New("vendor.max_body_kb must be at least 1")
	ErrInvalidIDStrategy    = errors.New("catalog.id_strategy must be 'vendor' or 'sequence'")
	ErrInvalidConcurrency   = errors.New("enrich.concurrency must be non-negative")
	ErrInvalidDelay         = errors.New("enrich.delay_ms must be non-negative")
	ErrMissingSiteRoot      = errors.New("site.root is required")
	ErrMissingBuildDir      = errors.New("site.build_dir is required")
	ErrBuildDirIsRoot       = errors.New("site.build_dir must differ from site.root")
	ErrMissingTemplate      = errors.New("site.templates must name index, category, product and components")
	ErrInvalidDropdownLimit = errors.New("site.dropdown_limit must be at least 1")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete build configuration.
type Config struct {
	Vendor   VendorConfig   `yaml:"vendor"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Enrich   EnrichConfig   `yaml:"enrich"`
	Site     SiteConfig     `yaml:"site"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Publish  PublishConfig  `yaml:"publish"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// VendorConfig describes the vendor API endpoints.
type VendorConfig struct {
	CatalogURL        string `yaml:"catalog_url"`
	DetailURL         string `yaml:"detail_url"`
	UserAgent         string `yaml:"user_agent"`
	CatalogTimeoutSec int    `yaml:"catalog_timeout_sec"`
	DetailTimeoutSec  int    `yaml:"detail_timeout_sec"`
	MaxBodyKb         int    `yaml:"max_body_kb"`
}

// CatalogTimeout returns the catalog request timeout.
func (v *VendorConfig) CatalogTimeout() time.Duration {
	return time.Duration(v.CatalogTimeoutSec) * time.Second
}

// DetailTimeout returns the per-product detail request timeout.
func (v *VendorConfig) DetailTimeout() time.Duration {
	return time.Duration(v.DetailTimeoutSec) * time.Second
}

// CatalogConfig controls normalization.
type CatalogConfig struct {
	IDStrategy string `yaml:"id_strategy"`
}

// EnrichConfig controls the detail fetch fan-out.
type EnrichConfig struct {
	Concurrency int  `yaml:"concurrency"`
	DelayMs     int  `yaml:"delay_ms"`
	Enabled     bool `yaml:"enabled"`
}

// Delay returns the minimum spacing between detail request starts.
func (e *EnrichConfig) Delay() time.Duration {
	return time.Duration(e.DelayMs) * time.Millisecond
}

// SiteConfig locates templates, assets and the build output.
type SiteConfig struct {
	Templates     TemplatesConfig `yaml:"templates"`
	Name          string          `yaml:"name"`
	Root          string          `yaml:"root"`
	BuildDir      string          `yaml:"build_dir"`
	AssetDirs     []string        `yaml:"asset_dirs"`
	DropdownLimit int             `yaml:"dropdown_limit"`
}

// TemplatesConfig names template files relative to the site root.
type TemplatesConfig struct {
	Index      string `yaml:"index"`
	Category   string `yaml:"category"`
	Product    string `yaml:"product"`
	Components string `yaml:"components"`
}

// Path joins a template name onto the site root.
func (s *SiteConfig) Path(name string) string {
	return filepath.Join(s.Root, name)
}

// ExcludedHTML lists top-level HTML files that are templates and must not be staged.
func (s *SiteConfig) ExcludedHTML() []string {
	return []string{s.Templates.Category, s.Templates.Product}
}

// SnapshotConfig sets where fetched data is saved.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// ReportConfig sets where the build report is written.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig sets the prometheus textfile path.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// PublishConfig describes the S3 target for cmd/deploy.
type PublishConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration the tools run with when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Vendor: VendorConfig{
			CatalogURL:        "https://17go.com.tw/api/products.asp",
			DetailURL:         "https://17go.com.tw/api/Details.asp",
			UserAgent:         "yongpei-site-builder/1.0",
			CatalogTimeoutSec: 60,
			DetailTimeoutSec:  30,
			MaxBodyKb:         4096,
		},
		Catalog: CatalogConfig{IDStrategy: IDStrategyVendor},
		Enrich:  EnrichConfig{Enabled: true, Concurrency: 1, DelayMs: 500},
		Site: SiteConfig{
			Name:     "湧沛淨水",
			Root:     ".",
			BuildDir: "build",
			Templates: TemplatesConfig{
				Index:      "index.html",
				Category:   "category-template.html",
				Product:    "product-detail-template.html",
				Components: "js/components.js",
			},
			AssetDirs:     []string{"css", "img", "js", "lib", "scss"},
			DropdownLimit: 3,
		},
		Snapshot: SnapshotConfig{Dir: "data"},
		Publish:  PublishConfig{Region: "ap-northeast-1"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Resolve loads path if given, else DefaultPath if present, else the defaults,
// then applies .env and YONGPEI_* environment overrides.
func Resolve(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)

	switch {
	case path != "":
		cfg, err = LoadConfig(path)
	case fileExists(DefaultPath):
		cfg, err = LoadConfig(DefaultPath)
	default:
		cfg = DefaultConfig()
	}

	if err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides selected fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("YONGPEI_CATALOG_URL", &c.Vendor.CatalogURL)
	str("YONGPEI_DETAIL_URL", &c.Vendor.DetailURL)
	str("YONGPEI_SITE_ROOT", &c.Site.Root)
	str("YONGPEI_BUILD_DIR", &c.Site.BuildDir)
	str("YONGPEI_ID_STRATEGY", &c.Catalog.IDStrategy)
	str("YONGPEI_LOG_LEVEL", &c.Logging.Level)
	str("YONGPEI_S3_BUCKET", &c.Publish.Bucket)
	str("YONGPEI_S3_PREFIX", &c.Publish.Prefix)
	str("AWS_REGION", &c.Publish.Region)

	if v, ok := lookup("YONGPEI_ENRICH_CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Enrich.Concurrency = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Vendor.CatalogURL == "" {
		return ErrMissingCatalogURL
	}

	if c.Vendor.DetailURL == "" {
		return ErrMissingDetailURL
	}

	if c.Vendor.CatalogTimeoutSec < 1 || c.Vendor.DetailTimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Vendor.MaxBodyKb < 1 {
		return ErrInvalidMaxBody
	}

	if c.Catalog.IDStrategy != IDStrategyVendor && c.Catalog.IDStrategy != IDStrategySequence {
		return ErrInvalidIDStrategy
	}

	if c.Enrich.Concurrency < 0 {
		return ErrInvalidConcurrency
	}

	if c.Enrich.DelayMs < 0 {
		return ErrInvalidDelay
	}

	if c.Site.Root == "" {
		return ErrMissingSiteRoot
	}

	if c.Site.BuildDir == "" {
		return ErrMissingBuildDir
	}

	if filepath.Clean(c.Site.BuildDir) == filepath.Clean(c.Site.Root) {
		return ErrBuildDirIsRoot
	}

	tpl := c.Site.Templates
	if tpl.Index == "" || tpl.Category == "" || tpl.Product == "" || tpl.Components == "" {
		return ErrMissingTemplate
	}

	if c.Site.DropdownLimit < 1 {
		return ErrInvalidDropdownLimit
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Catalog: %s, IDs: %s, Enrich: %v/%d, Build: %s}",
		c.Vendor.CatalogURL,
		c.Catalog.IDStrategy,
		c.Enrich.Enabled,
		c.Enrich.Concurrency,
		c.Site.BuildDir,
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
