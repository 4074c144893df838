package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/obentoo/gitkit/internal/common/git"
)

// Repo is a handle on one working tree. Path is canonical and absolute.
// Submodule handles are discovered on first query and owned by their parent.
type Repo struct {
	Name string
	Path string

	// Scan is the record a submodule handle was built from; nil otherwise.
	Scan *SubmoduleRecord

	registry *Registry

	mu         sync.Mutex
	submodules map[string]*Repo
	scanned    bool
}

func newRepo(name, path string, registry *Registry) *Repo {
	return &Repo{
		Name:     name,
		Path:     path,
		registry: registry,
	}
}

// Invoke runs an arbitrary command family in the repository
func (r *Repo) Invoke(ctx context.Context, family, subcommand string, args git.Args) (*git.Outcome, error) {
	return r.registry.Invoke(ctx, r.Path, family, subcommand, args)
}

// Do runs op with args. Ops that take a subcommand must go through DoSub.
func (r *Repo) Do(ctx context.Context, op Op, args git.Args) (*git.Outcome, error) {
	operation, err := Lookup(op)
	if err != nil {
		return nil, err
	}
	if operation.RequiresSubcommand {
		return nil, &git.InvalidSubcommandError{Family: operation.Family}
	}
	return r.Invoke(ctx, operation.Family, "", args)
}

// DoSub runs op with a subcommand checked against the family's allow-list
func (r *Repo) DoSub(ctx context.Context, op Op, subcommand string, args git.Args) (*git.Outcome, error) {
	operation, err := Lookup(op)
	if err != nil {
		return nil, err
	}
	if git.Squish(subcommand) == "" {
		return nil, &git.InvalidSubcommandError{Family: operation.Family}
	}
	return r.Invoke(ctx, operation.Family, subcommand, args)
}

// IsReady reports whether Path is inside a git working tree
func (r *Repo) IsReady(ctx context.Context) (bool, error) {
	outcome, err := r.Do(ctx, OpRevParse, git.Raw("--is-inside-work-tree"))
	if err != nil {
		return false, err
	}
	return outcome.Success() && outcome.Output() == "true", nil
}

// IsDirty reports whether the working tree differs from the index.
// "git diff --quiet" exits 1 for changes; any other failure is an error.
func (r *Repo) IsDirty(ctx context.Context) (bool, error) {
	outcome, err := r.Do(ctx, OpDiff, git.Raw("--quiet"))
	if err != nil {
		return false, err
	}
	switch {
	case outcome.Success():
		return false, nil
	case outcome.ExitCode == 1:
		return true, nil
	default:
		return false, outcome.Err()
	}
}

// Branch returns the checked-out branch, or "" when HEAD is detached
func (r *Repo) Branch(ctx context.Context) (string, error) {
	outcome, err := r.Do(ctx, OpSymbolicRef, git.Raw("--short -q HEAD"))
	if err != nil {
		return "", err
	}
	switch {
	case outcome.Success():
		return outcome.Output(), nil
	case outcome.ExitCode == 1:
		return "", nil
	default:
		return "", outcome.Err()
	}
}

// Tag returns the most recent tag reachable from HEAD, or "" when there is none
func (r *Repo) Tag(ctx context.Context) (string, error) {
	outcome, err := r.Do(ctx, OpDescribe, git.Raw("--tags --abbrev=0"))
	if err != nil {
		return "", err
	}
	if outcome.Failed() {
		return "", nil
	}
	return outcome.Output(), nil
}

// Tags lists every tag in the repository
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	outcome, err := r.Do(ctx, OpTag, git.Raw("--list"))
	if err != nil {
		return nil, err
	}
	if err := outcome.Err(); err != nil {
		return nil, err
	}
	return splitLines(outcome.Output()), nil
}

// Status summarises the working tree of a repository
type Status struct {
	Ready  bool
	Branch string
	Tag    string
	Dirty  bool
}

// Status collects IsReady, Branch, Tag and IsDirty. A path that is not a
// working tree reports Ready false and nothing else.
func (r *Repo) Status(ctx context.Context) (Status, error) {
	var st Status
	ready, err := r.IsReady(ctx)
	if err != nil || !ready {
		return st, err
	}
	st.Ready = true

	if st.Branch, err = r.Branch(ctx); err != nil {
		return st, err
	}
	if st.Tag, err = r.Tag(ctx); err != nil {
		return st, err
	}
	st.Dirty, err = r.IsDirty(ctx)
	return st, err
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
