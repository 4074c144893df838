package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"github.com/obentoo/gitkit/internal/common/config"
	"github.com/obentoo/gitkit/internal/common/git"
	"github.com/obentoo/gitkit/internal/common/logger"
)

// ErrEmptyName is returned when a repository is registered without a name
var ErrEmptyName = errors.New("repository name is empty")

// scpLikeURL matches the user@host:path form accepted by git
var scpLikeURL = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:.+$`)

// Registry maps repository names to handles and owns the command pipeline
// shared by every handle: allow-lists, binary, runner and scan cache.
type Registry struct {
	cfg     *config.Config
	runner  git.Runner
	baseDir string
	cache   *ScanCache
	log     *logger.Logger

	mu    sync.RWMutex
	repos map[string]*Repo
}

// Option is a functional option for configuring Registry
type Option func(*Registry)

// WithBaseDir sets the directory used for clone, help and version.
// Relative clone destinations are resolved against it.
func WithBaseDir(dir string) Option {
	return func(r *Registry) {
		r.baseDir = dir
	}
}

// WithCache enables the submodule scan cache
func WithCache(cache *ScanCache) Option {
	return func(r *Registry) {
		r.cache = cache
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(log *logger.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// New creates a Registry. A nil cfg uses config.Default and a nil runner
// uses an ExecRunner bounded by the configured timeout.
func New(cfg *config.Config, runner git.Runner, opts ...Option) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	if runner == nil {
		runner = git.NewExecRunner(cfg.Git.Timeout)
	}

	r := &Registry{
		cfg:    cfg,
		runner: runner,
		log:    logger.Default(),
		repos:  make(map[string]*Repo),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = logger.Default()
	}
	if r.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.baseDir = wd
		} else {
			r.baseDir = "."
		}
	}
	return r
}

// Config returns the configuration the registry was built with
func (r *Registry) Config() *config.Config {
	return r.cfg
}

// BaseDir returns the directory used for repository-less commands
func (r *Registry) BaseDir() string {
	return r.baseDir
}

// AddRepository registers the directory at path under name.
// An existing name fails with *git.RepoExistsError unless replace is set;
// a path that is not a directory fails with *git.InvalidPathError.
func (r *Registry) AddRepository(name, path string, replace bool) (*Repo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.repos[name]; exists && !replace {
		return nil, &git.RepoExistsError{Name: name}
	}

	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, &git.InvalidPathError{Path: path, Reason: err.Error()}
	}
	resolved, err := git.ResolveDir(expanded)
	if err != nil {
		return nil, err
	}

	repo := newRepo(name, resolved, r)
	r.repos[name] = repo
	r.log.Debug("registered repository %s at %s", name, resolved)
	return repo, nil
}

// Repository returns the handle registered under name, or nil
func (r *Registry) Repository(name string) *Repo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.repos[name]
}

// Repositories returns every registered handle sorted by name
func (r *Registry) Repositories() []*Repo {
	r.mu.RLock()
	repos := make([]*Repo, 0, len(r.repos))
	for _, repo := range r.repos {
		repos = append(repos, repo)
	}
	r.mu.RUnlock()

	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	return repos
}

// LoadConfigured registers every repository listed in the configuration,
// replacing handles of the same name. Entries that fail are skipped and
// reported together.
func (r *Registry) LoadConfigured() error {
	var errs []error
	for _, name := range r.cfg.RepoNames() {
		path, err := r.cfg.RepoPath(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("repository %s: %w", name, err))
			continue
		}
		if _, err := r.AddRepository(name, path, true); err != nil {
			r.log.Warn("skipping repository %s: %v", name, err)
			errs = append(errs, fmt.Errorf("repository %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Invoke assembles "<binary> <family>[ <subcommand>] <args>" and runs it in dir.
// The subcommand is checked against the family's allow-list before anything runs.
func (r *Registry) Invoke(ctx context.Context, dir, family, subcommand string, args git.Args) (*git.Outcome, error) {
	family = git.Family(family)
	command := r.cfg.Command(family)

	cmd, err := git.NewCommand(
		shellquote.Join(r.cfg.Git.Binary),
		family,
		subcommand,
		args,
		git.Allowlist{Subcommands: command.Subcommands, Prefixes: command.Prefixes},
	)
	if err != nil {
		r.log.Debug("rejected %s %s: %v", family, subcommand, err)
		return nil, err
	}

	line := cmd.String()
	r.log.Debug("invoke %s (in %s)", line, dir)

	outcome, err := r.runner.Run(ctx, dir, line)
	if err != nil {
		r.log.Warn("%s: %v", line, err)
		return nil, err
	}
	if outcome.Failed() {
		r.log.Debug("%s exited with status %d", line, outcome.ExitCode)
	}
	return outcome, nil
}

// Clone runs "git clone <args> <url> <dest>" in the base directory and
// registers the new working tree under alias, or under the base name of
// dest when alias is empty. Everything is validated before git runs.
func (r *Registry) Clone(ctx context.Context, rawURL, dest string, args git.Args, alias string) (*Repo, error) {
	if err := validateCloneURL(rawURL); err != nil {
		return nil, err
	}

	target, err := r.cloneTarget(dest)
	if err != nil {
		return nil, err
	}

	if alias = strings.TrimSpace(alias); alias == "" {
		alias = filepath.Base(target)
	}
	if existing := r.Repository(alias); existing != nil {
		return nil, &git.RepoExistsError{Name: alias}
	}

	cloneArgs := git.Raw(strings.TrimSpace(git.BuildArgs(args) + " " + shellquote.Join(rawURL, target)))
	outcome, err := r.Invoke(ctx, r.baseDir, string(OpClone), "", cloneArgs)
	if err != nil {
		return nil, err
	}
	if err := outcome.Err(); err != nil {
		r.log.Warn("clone of %s failed: %s", rawURL, strings.TrimSpace(outcome.Stderr))
		return nil, err
	}

	r.log.Info("cloned %s into %s", rawURL, target)
	return r.AddRepository(alias, target, false)
}

// cloneTarget resolves dest against the base directory. Its parent must be
// an existing directory and dest itself must not exist yet.
func (r *Registry) cloneTarget(dest string) (string, error) {
	if strings.TrimSpace(dest) == "" {
		return "", &git.InvalidPathError{Path: dest, Reason: "is empty"}
	}

	expanded, err := config.ExpandHome(dest)
	if err != nil {
		return "", &git.InvalidPathError{Path: dest, Reason: err.Error()}
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(r.baseDir, expanded)
	}
	expanded = filepath.Clean(expanded)

	parent, err := git.ResolveDir(filepath.Dir(expanded))
	if err != nil {
		reason := err.Error()
		var pathErr *git.InvalidPathError
		if errors.As(err, &pathErr) {
			reason = pathErr.Reason
		}
		return "", &git.InvalidPathError{Path: dest, Reason: "parent directory " + reason}
	}

	target := filepath.Join(parent, filepath.Base(expanded))
	if _, err := os.Lstat(target); err == nil {
		return "", &git.InvalidPathError{Path: dest, Reason: "already exists"}
	}
	return target, nil
}

// validateCloneURL accepts URLs with a scheme and host, file URLs with a
// path, and scp-like user@host:path addresses.
func validateCloneURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return &git.InvalidURLError{URL: rawURL}
	}
	if !strings.Contains(rawURL, "://") && scpLikeURL.MatchString(rawURL) {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return &git.InvalidURLError{URL: rawURL}
	}
	if u.Scheme == "file" {
		if u.Path == "" {
			return &git.InvalidURLError{URL: rawURL}
		}
		return nil
	}
	if u.Host == "" {
		return &git.InvalidURLError{URL: rawURL}
	}
	return nil
}

// Help runs "git help <args>" in the base directory and returns its output
func (r *Registry) Help(ctx context.Context, args git.Args) (string, error) {
	return r.baseOutput(ctx, OpHelp, args)
}

// Version returns the output of "git version"
func (r *Registry) Version(ctx context.Context) (string, error) {
	return r.baseOutput(ctx, OpVersion, nil)
}

func (r *Registry) baseOutput(ctx context.Context, op Op, args git.Args) (string, error) {
	outcome, err := r.Invoke(ctx, r.baseDir, string(op), "", args)
	if err != nil {
		return "", err
	}
	return outcome.Output(), outcome.Err()
}
