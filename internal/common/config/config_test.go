package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genValidPath generates valid path strings (alphanumeric with slashes)
func genValidPath() gopter.Gen {
	return gen.RegexMatch(`^/[a-z][a-z0-9/]{0,20}$`)
}

// genAlias generates repository aliases
func genAlias() gopter.Gen {
	return gen.RegexMatch(`^[a-z][a-z0-9_-]{0,12}$`)
}

// genFamily generates kebab-case command family names
func genFamily() gopter.Gen {
	return gen.RegexMatch(`^[a-z]{2,8}(-[a-z]{2,8})?$`)
}

// genSubcommands generates non-empty subcommand lists
func genSubcommands() gopter.Gen {
	return gen.SliceOfN(3, gen.RegexMatch(`^[a-z]{1,8}$`))
}

// genConfig generates valid Config structs
func genConfig() gopter.Gen {
	return gopter.CombineGens(
		genAlias(),
		genValidPath(),
		genFamily(),
		genSubcommands(),
		gen.Bool(),
		gen.IntRange(1, 3600),
		gen.IntRange(1, 86400),
	).Map(func(values []interface{}) *Config {
		var prefixes []string
		if values[4].(bool) {
			prefixes = []string{"--quiet"}
		}
		commands := DefaultCommands()
		commands[values[2].(string)] = CommandConfig{
			Subcommands: values[3].([]string),
			Prefixes:    prefixes,
		}
		return &Config{
			Git: GitConfig{
				Binary:  "git",
				Timeout: time.Duration(values[5].(int)) * time.Second,
			},
			Repos: map[string]string{
				values[0].(string): values[1].(string),
			},
			Commands: commands,
			Cache: CacheConfig{
				Enabled: values[4].(bool),
				Key:     "git",
				Expires: time.Duration(values[6].(int)) * time.Second,
			},
		}
	})
}

// TestConfigRoundTrip tests that saving and loading preserves every field
func TestConfigRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Config YAML round-trip preserves data", prop.ForAll(
		func(cfg *Config) bool {
			configPath := filepath.Join(t.TempDir(), "config.yaml")

			if err := cfg.SaveTo(configPath); err != nil {
				t.Logf("Failed to save config: %v", err)
				return false
			}

			loaded, err := LoadFrom(configPath)
			if err != nil {
				t.Logf("Failed to load config: %v", err)
				return false
			}

			return reflect.DeepEqual(cfg, loaded)
		},
		genConfig(),
	))

	properties.TestingRun(t)
}

func TestMissingConfigFileCreatesDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Git.Binary != "git" {
		t.Errorf("Expected binary 'git', got: %s", cfg.Git.Binary)
	}
	if cfg.Git.Timeout != DefaultTimeout {
		t.Errorf("Expected timeout %v, got: %v", DefaultTimeout, cfg.Git.Timeout)
	}
	if !cfg.Cache.Enabled {
		t.Error("Expected cache to be enabled by default")
	}
	if cfg.Cache.Expires != DefaultCacheExpires {
		t.Errorf("Expected default expiry %v, got %v", DefaultCacheExpires, cfg.Cache.Expires)
	}
	if _, ok := cfg.Commands["stash"]; !ok {
		t.Error("Expected default commands to include stash")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Expected config file to be created")
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "repos:\n  default: /srv/app\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Repos["default"] != "/srv/app" {
		t.Errorf("Expected repo path /srv/app, got %q", cfg.Repos["default"])
	}
	if cfg.Git.Binary != "git" || cfg.Git.Timeout != DefaultTimeout {
		t.Errorf("git defaults not applied: %+v", cfg.Git)
	}
	if !reflect.DeepEqual(cfg.Commands, DefaultCommands()) {
		t.Error("Expected built-in command allow-list when none configured")
	}
	if cfg.Cache.Key != "git" {
		t.Errorf("Expected cache key 'git', got %q", cfg.Cache.Key)
	}
}

func TestLoadParsesDurationsAndCommands(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `git:
  binary: /usr/bin/git
  timeout: 30s
commands:
  stash:
    subcommands: [list, pop]
cache:
  enabled: false
  key: scans
  expires: 1h
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Git.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Git.Timeout)
	}
	if cfg.Cache.Expires != time.Hour {
		t.Errorf("Expected 1h expiry, got %v", cfg.Cache.Expires)
	}
	if cfg.Cache.Enabled {
		t.Error("Expected cache to be disabled")
	}
	if got := cfg.Command("stash").Subcommands; !reflect.DeepEqual(got, []string{"list", "pop"}) {
		t.Errorf("unexpected stash subcommands %v", got)
	}
	if got := cfg.Command("worktree").Subcommands; !reflect.DeepEqual(got, DefaultCommands()["worktree"].Subcommands) {
		t.Errorf("Expected built-in worktree entry to be kept, got %v", got)
	}
}

func TestLoadMergesCommandsOverDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `commands:
  stash:
    subcommands: [list]
  lfs:
    subcommands: [pull]
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	tests := []struct {
		family string
		want   CommandConfig
	}{
		{"stash", CommandConfig{Subcommands: []string{"list"}}},
		{"lfs", CommandConfig{Subcommands: []string{"pull"}}},
		{"submodule", DefaultCommands()["submodule"]},
		{"worktree", DefaultCommands()["worktree"]},
	}
	for _, tt := range tests {
		if got := cfg.Command(tt.family); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: expected %+v, got %+v", tt.family, tt.want, got)
		}
	}
}

func TestLoadCacheExpires(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    time.Duration
	}{
		{"missing takes default", "cache:\n  enabled: true\n", DefaultCacheExpires},
		{"zero takes default", "cache:\n  expires: 0s\n", DefaultCacheExpires},
		{"explicit", "cache:\n  expires: 10m\n", 10 * time.Minute},
		{"negative never expires", "cache:\n  expires: -1s\n", -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			cfg, err := LoadFrom(configPath)
			if err != nil {
				t.Fatalf("LoadFrom failed: %v", err)
			}
			if cfg.Cache.Expires != tt.want {
				t.Errorf("expected %v, got %v", tt.want, cfg.Cache.Expires)
			}
		})
	}
}

func TestLoadAppliesCommandsOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("repos: {}\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	override := `[stash]
subcommands = ["list"]

[lfs]
subcommands = ["pull", "push"]
`
	if err := os.WriteFile(filepath.Join(dir, CommandsFileName), []byte(override), 0644); err != nil {
		t.Fatalf("failed to write override: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if got := cfg.Command("stash").Subcommands; !reflect.DeepEqual(got, []string{"list"}) {
		t.Errorf("Expected overridden stash list, got %v", got)
	}
	if got := cfg.Command("lfs").Subcommands; !reflect.DeepEqual(got, []string{"pull", "push"}) {
		t.Errorf("Expected lfs family from override, got %v", got)
	}
	if got := cfg.Command("submodule").Prefixes; !reflect.DeepEqual(got, []string{"--quiet"}) {
		t.Errorf("Expected untouched submodule prefixes, got %v", got)
	}
}

func TestLoadCommandsFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCommandsFile(filepath.Join(t.TempDir(), CommandsFileName))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected ErrNotExist, got %v", err)
		}
	})

	t.Run("prefixes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), CommandsFileName)
		content := "[submodule]\nsubcommand_prefixes = [\"--quiet\"]\nsubcommands = [\"status\"]\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		commands, err := LoadCommandsFile(path)
		if err != nil {
			t.Fatalf("LoadCommandsFile failed: %v", err)
		}
		want := CommandConfig{Subcommands: []string{"status"}, Prefixes: []string{"--quiet"}}
		if !reflect.DeepEqual(commands["submodule"], want) {
			t.Errorf("expected %+v, got %+v", want, commands["submodule"])
		}
	})

	t.Run("empty subcommand", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), CommandsFileName)
		if err := os.WriteFile(path, []byte("[stash]\nsubcommands = [\"\"]\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, err := LoadCommandsFile(path)
		if !errors.Is(err, ErrEmptySubcommand) {
			t.Errorf("Expected ErrEmptySubcommand, got %v", err)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), CommandsFileName)
		if err := os.WriteFile(path, []byte("[stash\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		if _, err := LoadCommandsFile(path); err == nil {
			t.Error("Expected parse error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"default is valid", func(*Config) {}, nil},
		{"negative timeout", func(c *Config) { c.Git.Timeout = -time.Second }, ErrInvalidTimeout},
		{"blank binary", func(c *Config) { c.Git.Binary = " " }, ErrMissingBinary},
		{"blank family", func(c *Config) { c.Commands[""] = CommandConfig{} }, ErrEmptyFamily},
		{"blank subcommand", func(c *Config) {
			c.Commands["stash"] = CommandConfig{Subcommands: []string{"list", " "}}
		}, ErrEmptySubcommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRepoPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := Default()
	cfg.Repos["home"] = "~/src/app"
	cfg.Repos["abs"] = "/srv/app"

	got, err := cfg.RepoPath("home")
	if err != nil {
		t.Fatalf("RepoPath failed: %v", err)
	}
	if want := filepath.Join(home, "src/app"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if got, _ := cfg.RepoPath("abs"); got != "/srv/app" {
		t.Errorf("expected /srv/app, got %s", got)
	}

	if _, err := cfg.RepoPath("missing"); !errors.Is(err, ErrRepoNotConfigured) {
		t.Errorf("expected ErrRepoNotConfigured, got %v", err)
	}

	if names := cfg.RepoNames(); !reflect.DeepEqual(names, []string{"abs", "home"}) {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestConfigPathsHonourXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	paths, err := ConfigPaths()
	if err != nil {
		t.Fatalf("ConfigPaths failed: %v", err)
	}
	if paths[0] != filepath.Join(dir, "gitkit", "config.yaml") {
		t.Errorf("unexpected primary path %s", paths[0])
	}

	found, err := FindConfigPath()
	if err != nil {
		t.Fatalf("FindConfigPath failed: %v", err)
	}
	if found != paths[0] && found != paths[1] {
		t.Errorf("FindConfigPath returned unknown path %s", found)
	}
}
