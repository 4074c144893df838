package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// CommandsFileName is the optional allow-list override read next to config.yaml
const CommandsFileName = "commands.toml"

// ErrCommandsFileNotFound is returned when the commands override file does not exist
var ErrCommandsFileNotFound = fmt.Errorf("%s not found: %w", CommandsFileName, os.ErrNotExist)

// DefaultCommands returns the built-in subcommand allow-list for every git
// command family that takes a subcommand.
func DefaultCommands() map[string]CommandConfig {
	return map[string]CommandConfig{
		"bisect": {
			Subcommands: []string{"start", "bad", "new", "good", "old", "terms", "skip", "reset", "visualize", "view", "replay", "log", "run"},
		},
		"bundle": {
			Subcommands: []string{"create", "verify", "list-heads", "unbundle"},
		},
		"maintenance": {
			Subcommands: []string{"run", "start", "stop", "register", "unregister"},
		},
		"notes": {
			Subcommands: []string{"list", "add", "copy", "append", "edit", "show", "merge", "remove", "prune", "get-ref"},
		},
		"sparse-checkout": {
			Subcommands: []string{"init", "list", "set", "add", "reapply", "disable", "check-rules"},
		},
		"stash": {
			Subcommands: []string{"list", "show", "drop", "pop", "apply", "branch", "push", "save", "clear", "create", "store"},
		},
		"submodule": {
			Prefixes:    []string{"--quiet"},
			Subcommands: []string{"add", "status", "init", "deinit", "update", "set-branch", "set-url", "summary", "foreach", "sync", "absorbgitdirs"},
		},
		"worktree": {
			Subcommands: []string{"add", "list", "lock", "move", "prune", "remove", "repair", "unlock"},
		},
		"reflog": {
			Subcommands: []string{"show", "expire", "delete", "exists"},
		},
		"remote": {
			Subcommands: []string{"add", "rename", "remove", "set-head", "set-branches", "get-url", "set-url", "show", "prune", "update"},
		},
		"p4": {
			Subcommands: []string{"clone", "sync", "rebase", "submit"},
		},
		"commit-graph": {
			Subcommands: []string{"verify", "write"},
		},
		"credential": {
			Subcommands: []string{"fill", "approve", "reject"},
		},
		"hook": {
			Subcommands: []string{"run"},
		},
	}
}

// LoadCommandsFile parses a TOML allow-list file where every table is a
// command family:
//
//	[stash]
//	subcommands = ["list", "pop"]
//
//	[submodule]
//	subcommand_prefixes = ["--quiet"]
//	subcommands = ["status", "foreach"]
func LoadCommandsFile(path string) (map[string]CommandConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCommandsFileNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", CommandsFileName, err)
	}

	var commands map[string]CommandConfig
	if err := toml.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", CommandsFileName, err)
	}

	for family, cmd := range commands {
		for _, sub := range cmd.Subcommands {
			if sub == "" {
				return nil, fmt.Errorf("%s: command %s: %w", CommandsFileName, family, ErrEmptySubcommand)
			}
		}
	}

	return commands, nil
}
