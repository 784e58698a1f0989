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

const (
	DefaultAPIURL            = "https://pixabay.com/api/"
	DefaultImageIDsFilepath  = "pixabay_ids.txt"
	DefaultImageURLsFilepath = "pixabay_urls.txt"
	DefaultDownloadDir       = "pixabay"

	// APIKeyEnv is the conventional variable holding the Pixabay API key
	APIKeyEnv = "PIXABAY_API_KEY"
)

// Config holds all configuration options for the Pixabay downloader
type Config struct {
	// Pixabay API access
	Pixabay PixabayConfig `yaml:"pixabay" json:"pixabay"`

	// Input and output locations
	Files FilesConfig `yaml:"files" json:"files"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PixabayConfig holds Pixabay API configuration
type PixabayConfig struct {
	APIKey    string `yaml:"api_key" json:"api_key"`
	APIURL    string `yaml:"api_url" json:"api_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// FilesConfig holds the ids file, url cache file and download directory
type FilesConfig struct {
	ImageIDsFilepath  string `yaml:"image_ids_filepath" json:"image_ids_filepath"`
	ImageURLsFilepath string `yaml:"image_urls_filepath" json:"image_urls_filepath"`
	DownloadDir       string `yaml:"download_dir" json:"download_dir"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	// Concurrency is the worker count per phase; 0 means one worker per item
	Concurrency     int           `yaml:"concurrency" json:"concurrency"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	UpdateImageURLs bool          `yaml:"update_image_urls" json:"update_image_urls"`
	SkipExisting    bool          `yaml:"skip_existing" json:"skip_existing"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Pixabay: PixabayConfig{
			APIURL:    DefaultAPIURL,
			UserAgent: "pixabaydl/1.0",
		},
		Files: FilesConfig{
			ImageIDsFilepath:  DefaultImageIDsFilepath,
			ImageURLsFilepath: DefaultImageURLsFilepath,
			DownloadDir:       DefaultDownloadDir,
		},
		Download: DownloadConfig{
			Concurrency: 0,
			Timeout:     0, // no timeout
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	// Pixabay
	if key := os.Getenv(APIKeyEnv); key != "" {
		c.Pixabay.APIKey = key
	}
	if key := os.Getenv("PIXABAYDL_API_KEY"); key != "" {
		c.Pixabay.APIKey = key
	}
	if apiURL := os.Getenv("PIXABAYDL_API_URL"); apiURL != "" {
		c.Pixabay.APIURL = apiURL
	}
	if userAgent := os.Getenv("PIXABAYDL_USER_AGENT"); userAgent != "" {
		c.Pixabay.UserAgent = userAgent
	}

	// Files
	if path := os.Getenv("PIXABAYDL_IMAGE_IDS_FILEPATH"); path != "" {
		c.Files.ImageIDsFilepath = path
	}
	if path := os.Getenv("PIXABAYDL_IMAGE_URLS_FILEPATH"); path != "" {
		c.Files.ImageURLsFilepath = path
	}
	if dir := os.Getenv("PIXABAYDL_DOWNLOAD_DIR"); dir != "" {
		c.Files.DownloadDir = dir
	}

	// Download
	if concurrency := os.Getenv("PIXABAYDL_CONCURRENCY"); concurrency != "" {
		val, err := strconv.Atoi(concurrency)
		if err != nil {
			errs = append(errs, fmt.Errorf("PIXABAYDL_CONCURRENCY: %w", err))
		} else {
			c.Download.Concurrency = val
		}
	}
	if timeout := os.Getenv("PIXABAYDL_TIMEOUT"); timeout != "" {
		val, err := time.ParseDuration(timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("PIXABAYDL_TIMEOUT: %w", err))
		} else {
			c.Download.Timeout = val
		}
	}
	if update := os.Getenv("PIXABAYDL_UPDATE_IMAGE_URLS"); update != "" {
		c.Download.UpdateImageURLs = strings.ToLower(update) == "true"
	}
	if skip := os.Getenv("PIXABAYDL_SKIP_EXISTING"); skip != "" {
		c.Download.SkipExisting = strings.ToLower(skip) == "true"
	}

	// Logging
	if logLevel := os.Getenv("PIXABAYDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("PIXABAYDL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".pixabaydl.yaml",
		".pixabaydl.yml",
		filepath.Join(home, ".config", "pixabaydl", "config.yaml"),
		filepath.Join(home, ".config", "pixabaydl", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// The API key is not checked here; only the resolve phase needs it.
func (c *Config) Validate() error {
	var errs []error

	if c.Pixabay.APIURL == "" {
		errs = append(errs, errors.New("pixabay api url is required"))
	}

	if c.Files.ImageIDsFilepath == "" {
		errs = append(errs, errors.New("image ids filepath is required"))
	}
	if c.Files.ImageURLsFilepath == "" {
		errs = append(errs, errors.New("image urls filepath is required"))
	}
	if c.Files.DownloadDir == "" {
		errs = append(errs, errors.New("download directory is required"))
	}

	if c.Download.Concurrency < 0 {
		errs = append(errs, errors.New("concurrency cannot be negative"))
	}
	if c.Download.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags present in the map are applied, so callers pass the flags the
// user actually set.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if key, ok := flags["pixabay-api-key"].(string); ok && key != "" {
		c.Pixabay.APIKey = key
	}
	if path, ok := flags["image-ids-filepath"].(string); ok && path != "" {
		c.Files.ImageIDsFilepath = path
	}
	if path, ok := flags["image-urls-filepath"].(string); ok && path != "" {
		c.Files.ImageURLsFilepath = path
	}
	if dir, ok := flags["download-dir"].(string); ok && dir != "" {
		c.Files.DownloadDir = dir
	}
	if update, ok := flags["update-image-urls"].(bool); ok {
		c.Download.UpdateImageURLs = update
	}
	if skip, ok := flags["skip-existing"].(bool); ok {
		c.Download.SkipExisting = skip
	}
	if concurrency, ok := flags["concurrency"].(int); ok {
		c.Download.Concurrency = concurrency
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok {
		c.Download.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pixabaydl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
