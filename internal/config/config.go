// Package config provides configuration management for the static file server.
// It handles the YAML configuration file, its defaults and validation.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/clean-dependency-project/wwwserve/internal/resolver"
)

// SupportedVersions is the constraint a configuration file's version must satisfy.
const SupportedVersions = "^1"

// Sentinel errors for configuration validation
var (
	ErrVersionRequired      = errors.New("version is required")
	ErrVersionUnsupported   = errors.New("unsupported configuration version")
	ErrDocumentRootRequired = errors.New("document_root is required")
	ErrDocumentRootTraverse = errors.New("document_root must not contain \"..\"")
	ErrInvalidPort          = errors.New("port must be between 0 and 65535")
	ErrInvalidBufferSize    = errors.New("buffer_size must be positive")
	ErrInvalidTimeout       = errors.New("invalid timeout")
	ErrDatabasePathRequired = errors.New("database_path is required when access_log is enabled")
)

// Config represents the top-level configuration structure.
type Config struct {
	Version   string          `yaml:"version"`
	Metadata  Metadata        `yaml:"metadata"`
	Server    ServerConfig    `yaml:"server"`
	AccessLog AccessLogConfig `yaml:"access_log"`
}

// Metadata represents metadata about the configuration.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ServerConfig represents listener and document root settings.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	DocumentRoot   string `yaml:"document_root"`
	RedirectPolicy string `yaml:"redirect_policy"` // "directory" or "extension"
	BufferSize     int    `yaml:"buffer_size"`
	ReadTimeout    string `yaml:"read_timeout"`  // empty disables the deadline
	WriteTimeout   string `yaml:"write_timeout"` // empty disables the deadline
}

// AccessLogConfig represents the SQLite access log.
type AccessLogConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// Address returns host:port for net.Listen.
func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// GetReadTimeout parses the read timeout. Empty or invalid values disable it.
func (s *ServerConfig) GetReadTimeout() time.Duration {
	return parseTimeout(s.ReadTimeout)
}

// GetWriteTimeout parses the write timeout. Empty or invalid values disable it.
func (s *ServerConfig) GetWriteTimeout() time.Duration {
	return parseTimeout(s.WriteTimeout)
}

func parseTimeout(value string) time.Duration {
	if value == "" {
		return 0
	}
	timeout, err := time.ParseDuration(value)
	if err != nil || timeout < 0 {
		return 0
	}
	return timeout
}

// GetRedirectPolicy returns the parsed redirect policy.
func (s *ServerConfig) GetRedirectPolicy() resolver.RedirectPolicy {
	policy, err := resolver.ParsePolicy(s.RedirectPolicy)
	if err != nil {
		return resolver.PolicyDirectory
	}
	return policy
}

// LoadConfig loads and parses the configuration from a YAML file.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate validates the configuration structure and required fields.
func (c *Config) Validate() error {
	if c.Version == "" {
		return ErrVersionRequired
	}
	if err := checkVersion(c.Version); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.AccessLog.Validate(); err != nil {
		return fmt.Errorf("access_log: %w", err)
	}
	return nil
}

func checkVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrVersionUnsupported, version, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", SupportedVersions, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w %q: want %s", ErrVersionUnsupported, version, SupportedVersions)
	}
	return nil
}

// Validate validates listener and document root settings.
func (s *ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return ErrInvalidPort
	}
	if strings.TrimSpace(s.DocumentRoot) == "" {
		return ErrDocumentRootRequired
	}
	// The resolver rejects any path containing "..", root included.
	if strings.Contains(s.DocumentRoot, "..") {
		return ErrDocumentRootTraverse
	}
	if _, err := resolver.ParsePolicy(s.RedirectPolicy); err != nil {
		return err
	}
	if s.BufferSize <= 0 {
		return ErrInvalidBufferSize
	}
	for name, value := range map[string]string{"read_timeout": s.ReadTimeout, "write_timeout": s.WriteTimeout} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidTimeout, name, value)
		}
	}
	return nil
}

// Validate validates access log settings.
func (a *AccessLogConfig) Validate() error {
	if a.Enabled && a.DatabasePath == "" {
		return ErrDatabasePathRequired
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Metadata: Metadata{
			Name:        "wwwserve",
			Description: "static files from a single document root",
		},
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8080,
			DocumentRoot:   resolver.DefaultRoot,
			RedirectPolicy: string(resolver.PolicyDirectory),
			BufferSize:     1024,
			ReadTimeout:    "30s",
			WriteTimeout:   "30s",
		},
		AccessLog: AccessLogConfig{
			Enabled:      false,
			DatabasePath: "access.db",
		},
	}
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filePath, err)
	}
	return nil
}
