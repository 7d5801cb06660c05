package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/internal/identity"
	"github.com/BerryBytes/credchain/internal/oauth"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const AppName = "credchain"

const (
	EnvAPIKey           = "CREDCHAIN_API_KEY"
	EnvEmail            = "CREDCHAIN_EMAIL"
	EnvPassword         = "CREDCHAIN_PASSWORD"
	EnvBackendURL       = "CREDCHAIN_BACKEND_URL"
	EnvIdentityEndpoint = "CREDCHAIN_IDENTITY_ENDPOINT"
	EnvTokenURL         = "CREDCHAIN_TOKEN_URL"
	EnvDriveEndpoint    = "CREDCHAIN_DRIVE_ENDPOINT"
)

var (
	ErrNoConfigFile  = errors.New("no config file found")
	ErrMissingConfig = errors.New("missing required configuration")
)

type Config struct {
	Identity IdentityConfig `yaml:"identity" json:"identity"`
	Backend  BackendConfig  `yaml:"backend" json:"backend"`
	OAuth    OAuthConfig    `yaml:"oauth" json:"oauth"`
	Drive    DriveConfig    `yaml:"drive" json:"drive"`
	HTTP     HTTPConfig     `yaml:"http" json:"http"`
}

type IdentityConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	APIKey   string `yaml:"api_key" json:"api_key"`
	Email    string `yaml:"email" json:"email"`
	// Password is read from the file when present; prefer the keyring or
	// CREDCHAIN_PASSWORD.
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
}

type BackendConfig struct {
	URL string `yaml:"url" json:"url"`
}

type OAuthConfig struct {
	TokenURL string `yaml:"token_url" json:"token_url"`
}

type DriveConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

type HTTPConfig struct {
	Timeout string `yaml:"timeout" json:"timeout"`
}

func Default() *Config {
	return &Config{
		Identity: IdentityConfig{Endpoint: identity.DefaultEndpoint},
		OAuth:    OAuthConfig{TokenURL: oauth.DefaultTokenURL},
		HTTP:     HTTPConfig{Timeout: common.DefaultHTTPTimeout.String()},
	}
}

// Loader reads configuration from disk and the environment.
type Loader struct {
	Fs        afero.Fs
	ConfigDir string
	LookupEnv func(key string) (string, bool)
}

func NewLoader() (*Loader, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return &Loader{
		Fs:        afero.NewOsFs(),
		ConfigDir: filepath.Join(userHome, ".config", AppName),
		LookupEnv: os.LookupEnv,
	}, nil
}

// Load builds the effective configuration. An explicit path must exist; without
// one the default directory is searched and a missing file is not an error.
// Environment variables win over file values.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		found, err := FindConfigFile(l.Fs, l.ConfigDir)
		if err != nil && !errors.Is(err, ErrNoConfigFile) {
			return nil, err
		}
		path = found
	}

	if path != "" {
		if err := l.loadFile(path, cfg); err != nil {
			return nil, err
		}
	} else {
		log.Debug("No config file found, using defaults and environment", "dir", l.ConfigDir)
	}

	l.applyEnv(cfg)
	return cfg, nil
}

func (l *Loader) loadFile(path string, cfg *Config) error {
	fileData, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Each attempt decodes into a copy so a partial decode never leaks.
	parsed := *cfg
	if err := yaml.Unmarshal(fileData, &parsed); err != nil {
		log.Debug("YAML parsing failed, trying JSON", "path", path, "error", err)
		parsed = *cfg
		if err := json.Unmarshal(fileData, &parsed); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	*cfg = parsed
	log.Debug("Loaded config file", "path", path)
	return nil
}

func (l *Loader) applyEnv(cfg *Config) {
	cfg.Identity.APIKey = l.getEnv(EnvAPIKey, cfg.Identity.APIKey)
	cfg.Identity.Email = l.getEnv(EnvEmail, cfg.Identity.Email)
	cfg.Identity.Password = l.getEnv(EnvPassword, cfg.Identity.Password)
	cfg.Identity.Endpoint = l.getEnv(EnvIdentityEndpoint, cfg.Identity.Endpoint)
	cfg.Backend.URL = l.getEnv(EnvBackendURL, cfg.Backend.URL)
	cfg.OAuth.TokenURL = l.getEnv(EnvTokenURL, cfg.OAuth.TokenURL)
	cfg.Drive.Endpoint = l.getEnv(EnvDriveEndpoint, cfg.Drive.Endpoint)
}

func (l *Loader) getEnv(key, fallback string) string {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, exists := lookup(key); exists && value != "" {
		return value
	}
	return fallback
}

func FindConfigFile(fs afero.Fs, dir string) (string, error) {
	extensions := []string{"config.yml", "config.yaml", "config.json"}

	if _, err := fs.Stat(dir); os.IsNotExist(err) {
		return "", ErrNoConfigFile
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}

	for _, ext := range extensions {
		possiblePath := filepath.Join(dir, ext)
		if _, err := fs.Stat(possiblePath); err == nil {
			return possiblePath, nil
		}
	}

	return "", ErrNoConfigFile
}

// Validate checks the settings every run needs. The password is resolved
// separately.
func (c *Config) Validate() error {
	var missing []string
	if c.Identity.APIKey == "" {
		missing = append(missing, "identity.api_key ("+EnvAPIKey+")")
	}
	if c.Identity.Email == "" {
		missing = append(missing, "identity.email ("+EnvEmail+")")
	}
	if c.Backend.URL == "" {
		missing = append(missing, "backend.url ("+EnvBackendURL+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	urls := []struct {
		name  string
		value string
	}{
		{"backend.url", c.Backend.URL},
		{"identity.endpoint", c.Identity.Endpoint},
		{"oauth.token_url", c.OAuth.TokenURL},
		{"drive.endpoint", c.Drive.Endpoint},
	}
	for _, u := range urls {
		if u.value == "" {
			continue
		}
		if err := validateURL(u.value); err != nil {
			return fmt.Errorf("invalid %s: %w", u.name, err)
		}
	}

	if _, err := c.HTTPTimeout(); err != nil {
		return err
	}
	return nil
}

// HTTPTimeout parses http.timeout. An empty value means the default.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	if c.HTTP.Timeout == "" {
		return common.DefaultHTTPTimeout, nil
	}
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid http.timeout %q: %w", c.HTTP.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid http.timeout %q: must be positive", c.HTTP.Timeout)
	}
	return d, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
