package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTimeout    = errors.New("git timeout must not be negative")
	ErrMissingBinary     = errors.New("git binary is not configured")
	ErrEmptyFamily       = errors.New("command family name is empty")
	ErrEmptySubcommand   = errors.New("subcommand list contains an empty entry")
	ErrRepoNotConfigured = errors.New("repository is not configured")
)

// DefaultTimeout bounds a single git invocation when no timeout is configured
const DefaultTimeout = 5 * time.Minute

// DefaultCacheExpires is how long a submodule scan is reused when no expiry is configured
const DefaultCacheExpires = time.Hour

// Config represents the application configuration
type Config struct {
	Git      GitConfig                `yaml:"git"`
	Repos    map[string]string        `yaml:"repos,omitempty"`
	Commands map[string]CommandConfig `yaml:"commands,omitempty"`
	Cache    CacheConfig              `yaml:"cache"`
}

// GitConfig holds settings for the git executable
type GitConfig struct {
	Binary  string        `yaml:"binary"`
	Timeout time.Duration `yaml:"timeout"`
}

// CommandConfig holds the allowed subcommands of one command family.
// With prefixes, the allowed strings are every "prefix subcommand" pair.
type CommandConfig struct {
	Subcommands []string `yaml:"subcommands" toml:"subcommands"`
	Prefixes    []string `yaml:"subcommand_prefixes,omitempty" toml:"subcommand_prefixes"`
}

// CacheConfig holds the submodule scan cache policy.
// A zero Expires takes DefaultCacheExpires; a negative one keeps entries
// until they are replaced.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Key     string        `yaml:"key"`
	Expires time.Duration `yaml:"expires"`
}

// Default returns the configuration used when no config file exists yet
func Default() *Config {
	return &Config{
		Git: GitConfig{
			Binary:  "git",
			Timeout: DefaultTimeout,
		},
		Repos:    map[string]string{},
		Commands: DefaultCommands(),
		Cache: CacheConfig{
			Enabled: true,
			Key:     "git",
			Expires: DefaultCacheExpires,
		},
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. $XDG_CONFIG_HOME/gitkit/config.yaml (default ~/.config)
// 2. ~/.gitkit/config.yaml
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "gitkit", "config.yaml"),
		filepath.Join(home, ".gitkit", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is created with the default configuration. Families listed
// under commands, then those in a commands.toml next to the file, replace
// the built-in entry of the same name; other built-in families are kept.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg := Default()
		if saveErr := cfg.SaveTo(path); saveErr != nil {
			return nil, saveErr
		}
		return cfg, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	overridePath := filepath.Join(filepath.Dir(path), CommandsFileName)
	overrides, err := LoadCommandsFile(overridePath)
	switch {
	case err == nil:
		for family, cmd := range overrides {
			cfg.Commands[family] = cmd
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills fields left empty in the file
func (c *Config) applyDefaults() {
	if c.Git.Binary == "" {
		c.Git.Binary = "git"
	}
	if c.Git.Timeout == 0 {
		c.Git.Timeout = DefaultTimeout
	}
	if c.Repos == nil {
		c.Repos = map[string]string{}
	}
	commands := DefaultCommands()
	for family, cmd := range c.Commands {
		commands[family] = cmd
	}
	c.Commands = commands
	if c.Cache.Key == "" {
		c.Cache.Key = "git"
	}
	if c.Cache.Expires == 0 {
		c.Cache.Expires = DefaultCacheExpires
	}
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for values the engine cannot work with
func (c *Config) Validate() error {
	if c.Git.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if strings.TrimSpace(c.Git.Binary) == "" {
		return ErrMissingBinary
	}
	for family, cmd := range c.Commands {
		if strings.TrimSpace(family) == "" {
			return ErrEmptyFamily
		}
		for _, sub := range cmd.Subcommands {
			if strings.TrimSpace(sub) == "" {
				return fmt.Errorf("command %s: %w", family, ErrEmptySubcommand)
			}
		}
	}
	return nil
}

// Command returns the allow-list of a command family.
// Families without an entry have no allowed subcommands.
func (c *Config) Command(family string) CommandConfig {
	return c.Commands[family]
}

// RepoPath returns the configured path of a repository alias with ~ expanded
func (c *Config) RepoPath(name string) (string, error) {
	path, ok := c.Repos[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRepoNotConfigured, name)
	}
	return ExpandHome(path)
}

// RepoNames returns the configured repository aliases, sorted
func (c *Config) RepoNames() []string {
	names := make([]string, 0, len(c.Repos))
	for name := range c.Repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// CacheDir returns the directory holding the scan cache
func CacheDir() (string, error) {
	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgCache = filepath.Join(home, ".cache")
	}
	return filepath.Join(xdgCache, "gitkit"), nil
}
