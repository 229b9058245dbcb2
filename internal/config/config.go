// Package config provides configuration management for the canlog client.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/canlog/canlog-client/internal/constants"
)

// Config is the effective client configuration.
//
// Config file location:
//   - Windows: %APPDATA%\canlog\config.ini
//   - Unix: ~/.config/canlog/config.ini
//
// INI format:
//
//	[backend]
//	url = http://127.0.0.1:5000
//
//	[proxy]
//	mode = no-proxy
//	host =
//	port = 0
//	user =
//	no_proxy =
//
//	[client]
//	download_dir = .
//	include_hidden = false
//	log_to_file = true
type Config struct {
	BackendURL string

	// Proxy settings
	ProxyMode     string // "no-proxy", "system", "basic", "ntlm"
	ProxyHost     string
	ProxyPort     int
	ProxyUser     string
	ProxyPassword string // never written to disk
	NoProxy       string // Comma-separated list of hosts to bypass proxy

	// DownloadDir is where saved archives and files land.
	DownloadDir string

	// IncludeHidden includes dot-files when expanding a folder selection.
	IncludeHidden bool

	// LogToFile tees GUI/TUI logs into a rotating file under LogDirectory().
	LogToFile bool
}

// Proxy modes
const (
	ProxyNone   = "no-proxy"
	ProxySystem = "system"
	ProxyBasic  = "basic"
	ProxyNTLM   = "ntlm"
)

// Environment variables read by MergeWithFlags
const (
	EnvBackendURL    = "CANLOG_BACKEND_URL"
	EnvProxyPassword = "CANLOG_PROXY_PASSWORD"
)

// Validation errors
var (
	ErrEmptyBaseURL     = errors.New("backend URL is empty")
	ErrInvalidBaseURL   = errors.New("backend URL must be an absolute http or https URL")
	ErrInvalidProxyMode = errors.New("proxy mode must be one of no-proxy, system, basic, ntlm")
	ErrMissingProxyHost = errors.New("proxy host is required for basic and ntlm proxy modes")
)

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		BackendURL:  constants.DefaultBackendURL,
		ProxyMode:   ProxyNone,
		DownloadDir: ".",
		LogToFile:   true,
	}
}

// Load reads configuration from an INI file.
// A missing file yields defaults and no error; an unparsable file is an error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	backend := iniFile.Section("backend")
	cfg.BackendURL = backend.Key("url").MustString(cfg.BackendURL)

	proxy := iniFile.Section("proxy")
	cfg.ProxyMode = proxy.Key("mode").MustString(cfg.ProxyMode)
	cfg.ProxyHost = proxy.Key("host").String()
	cfg.ProxyPort = proxy.Key("port").MustInt(0)
	cfg.ProxyUser = proxy.Key("user").String()
	cfg.NoProxy = proxy.Key("no_proxy").String()

	client := iniFile.Section("client")
	cfg.DownloadDir = client.Key("download_dir").MustString(cfg.DownloadDir)
	cfg.IncludeHidden = client.Key("include_hidden").MustBool(false)
	cfg.LogToFile = client.Key("log_to_file").MustBool(true)

	return cfg, nil
}

// Save writes the configuration to an INI file, creating parent directories.
// The proxy password is never persisted.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	backend, err := iniFile.NewSection("backend")
	if err != nil {
		return fmt.Errorf("failed to create backend section: %w", err)
	}
	backend.Key("url").SetValue(cfg.BackendURL)

	proxy, err := iniFile.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to create proxy section: %w", err)
	}
	proxy.Key("mode").SetValue(cfg.ProxyMode)
	proxy.Key("host").SetValue(cfg.ProxyHost)
	proxy.Key("port").SetValue(strconv.Itoa(cfg.ProxyPort))
	proxy.Key("user").SetValue(cfg.ProxyUser)
	proxy.Key("no_proxy").SetValue(cfg.NoProxy)

	client, err := iniFile.NewSection("client")
	if err != nil {
		return fmt.Errorf("failed to create client section: %w", err)
	}
	client.Key("download_dir").SetValue(cfg.DownloadDir)
	client.Key("include_hidden").SetValue(strconv.FormatBool(cfg.IncludeHidden))
	client.Key("log_to_file").SetValue(strconv.FormatBool(cfg.LogToFile))

	// Temporary file + rename so a crash never leaves a half-written config
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// MergeWithFlags merges config with command-line flags and environment variables.
// Priority (highest to lowest): flags > environment > config file > defaults.
// A .env file, when present, has already been folded into the environment by the caller.
func (c *Config) MergeWithFlags(backendURL, proxyMode, proxyHost string, proxyPort int) {
	if envURL := os.Getenv(EnvBackendURL); envURL != "" {
		c.BackendURL = envURL
	}
	if envPassword := os.Getenv(EnvProxyPassword); envPassword != "" {
		c.ProxyPassword = envPassword
	}
	if envProxy := os.Getenv("HTTPS_PROXY"); envProxy != "" && c.ProxyHost == "" {
		c.parseProxyURL(envProxy)
	}

	if backendURL != "" {
		c.BackendURL = backendURL
	}
	if proxyMode != "" {
		c.ProxyMode = proxyMode
	}
	if proxyHost != "" {
		c.ProxyHost = proxyHost
	}
	if proxyPort > 0 {
		c.ProxyPort = proxyPort
	}

	c.BackendURL = NormalizeBackendURL(c.BackendURL)
}

// NormalizeBackendURL trims whitespace and trailing slashes and adds an
// http:// scheme when none is given. Empty input stays empty.
func NormalizeBackendURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return strings.TrimRight(u, "/")
}

// parseProxyURL parses a proxy URL from an environment variable
func (c *Config) parseProxyURL(proxyURL string) {
	proxyURL = strings.TrimPrefix(proxyURL, "http://")
	proxyURL = strings.TrimPrefix(proxyURL, "https://")
	proxyURL = strings.TrimRight(proxyURL, "/")

	parts := strings.Split(proxyURL, ":")
	if len(parts) >= 1 {
		c.ProxyHost = parts[0]
	}
	if len(parts) >= 2 {
		if port, err := strconv.Atoi(parts[1]); err == nil {
			c.ProxyPort = port
		}
	}
	if c.ProxyHost != "" && (c.ProxyMode == ProxyNone || c.ProxyMode == "") {
		c.ProxyMode = ProxySystem
	}
}

// Validate checks if the configuration is usable for talking to the backend.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return ErrEmptyBaseURL
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BackendURL)
	}

	switch strings.ToLower(c.ProxyMode) {
	case ProxyNone, "", ProxySystem:
	case ProxyBasic, ProxyNTLM:
		if c.ProxyHost == "" {
			return ErrMissingProxyHost
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidProxyMode, c.ProxyMode)
	}
	return nil
}

// NeedsProxyPassword returns true if the proxy configuration requires a password
// but one has not been provided.
func (c *Config) NeedsProxyPassword() bool {
	mode := strings.ToLower(c.ProxyMode)
	if mode != ProxyBasic && mode != ProxyNTLM {
		return false
	}
	return c.ProxyUser != "" && c.ProxyPassword == ""
}

// Describe renders the effective configuration for display, masking secrets.
func (c *Config) Describe() string {
	password := ""
	if c.ProxyPassword != "" {
		password = "********"
	}
	rows := [][2]string{
		{"backend.url", c.BackendURL},
		{"proxy.mode", c.ProxyMode},
		{"proxy.host", c.ProxyHost},
		{"proxy.port", strconv.Itoa(c.ProxyPort)},
		{"proxy.user", c.ProxyUser},
		{"proxy.password", password},
		{"proxy.no_proxy", c.NoProxy},
		{"client.download_dir", c.DownloadDir},
		{"client.include_hidden", strconv.FormatBool(c.IncludeHidden)},
		{"client.log_to_file", strconv.FormatBool(c.LogToFile)},
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-22s = %s\n", row[0], row[1])
	}
	return b.String()
}

// LoadOrDefault loads path and falls back to defaults with a warning when the
// file cannot be parsed. Front ends use it so a broken file never blocks startup.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Printf("[WARN] %v, using defaults", err)
		return NewConfig()
	}
	return cfg
}
