package main

import (
	"os"

	"github.com/obentoo/gitkit/internal/common/config"
	"github.com/obentoo/gitkit/internal/common/git"
	"github.com/obentoo/gitkit/internal/common/logger"
	"github.com/obentoo/gitkit/internal/common/output"
	"github.com/obentoo/gitkit/internal/repository"
)

// loadConfig reads the file given by --config or the first config found
// and returns it with the path it was read from
func loadConfig() (*config.Config, string) {
	path := configPath
	if path == "" {
		found, err := config.FindConfigPath()
		if err != nil {
			fatal("locating config: %v", err)
		}
		path = found
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		fatal("loading config: %v", err)
	}
	return cfg, path
}

// newRegistry builds a registry with every configured repository loaded.
// Configured repositories that cannot be registered are reported and skipped.
func newRegistry(cfg *config.Config) *repository.Registry {
	log := logger.Default()
	runner := git.NewExecRunner(cfg.Git.Timeout)
	runner.Log = log

	opts := []repository.Option{repository.WithLogger(log)}
	if cfg.Cache.Enabled {
		if cache, err := openScanCache(cfg); err != nil {
			logger.Warn("submodule scan cache disabled: %v", err)
		} else {
			opts = append(opts, repository.WithCache(cache))
		}
	}

	reg := repository.New(cfg, runner, opts...)
	if err := reg.LoadConfigured(); err != nil {
		output.PrintWarning("%v", err)
	}
	return reg
}

func openScanCache(cfg *config.Config) (*repository.ScanCache, error) {
	dir, err := config.CacheDir()
	if err != nil {
		return nil, err
	}
	return repository.NewScanCache(dir, cfg.Cache.Key, repository.WithTTL(cfg.Cache.Expires))
}

// mustRepository returns the named repository or exits
func mustRepository(reg *repository.Registry, name string) *repository.Repo {
	repo := reg.Repository(name)
	if repo == nil {
		fatal("repository %q is not registered", name)
	}
	return repo
}

// splitAtDash separates positional arguments from the ones after "--"
func splitAtDash(args []string, dash int) ([]string, []string) {
	if dash < 0 || dash > len(args) {
		return args, nil
	}
	return args[:dash], args[dash:]
}

func fatal(format string, args ...interface{}) {
	output.PrintError(format, args...)
	logger.Default().Close()
	os.Exit(1)
}
