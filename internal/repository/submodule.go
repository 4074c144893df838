package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/obentoo/gitkit/internal/common/git"
)

// ErrSubmoduleNotFound is returned when no submodule matches a search term
var ErrSubmoduleNotFound = errors.New("submodule not found")

// scanSubcommand is validated through the submodule allow-list and its prefixes
const scanSubcommand = "--quiet foreach"

// ScanSubmodules runs the scan script in every checked-out submodule and
// decodes the output. A repository without submodules yields no records.
func (r *Repo) ScanSubmodules(ctx context.Context) ([]SubmoduleRecord, error) {
	outcome, err := r.DoSub(ctx, OpSubmodule, scanSubcommand, git.Raw(shellquote.Join(ScanScript)))
	if err != nil {
		return nil, err
	}
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	records, err := ParseScanOutput(outcome.Stdout)
	if err != nil {
		return nil, fmt.Errorf("scan of %s: %w", r.Name, err)
	}
	return records, nil
}

// BuildSubmodules scans the repository and replaces the submodule map with
// the result. Submodules whose working tree is missing are left out.
func (r *Repo) BuildSubmodules(ctx context.Context) (map[string]*Repo, error) {
	records, err := r.ScanSubmodules(ctx)
	if err != nil {
		return nil, err
	}

	if cache := r.registry.cache; cache != nil {
		if err := cache.Set(r.Path, records); err != nil {
			r.registry.log.Warn("failed to cache submodules of %s: %v", r.Name, err)
		}
	}

	return r.replaceSubmodules(records), nil
}

// Submodules returns the submodule handles keyed by name. The first call
// scans (or reads the scan cache); later calls reuse the result until
// BuildSubmodules runs again.
func (r *Repo) Submodules(ctx context.Context) (map[string]*Repo, error) {
	r.mu.Lock()
	if r.scanned {
		children := copySubmodules(r.submodules)
		r.mu.Unlock()
		return children, nil
	}
	r.mu.Unlock()

	if cache := r.registry.cache; cache != nil {
		if records, ok := cache.Get(r.Path); ok {
			r.registry.log.Debug("using cached submodule scan of %s", r.Name)
			return r.replaceSubmodules(records), nil
		}
	}

	return r.BuildSubmodules(ctx)
}

// SearchSubmodules returns the submodules whose name or path relative to the
// superproject contains term, ignoring case, sorted by name. An empty term matches every submodule.
func (r *Repo) SearchSubmodules(ctx context.Context, term string) ([]*Repo, error) {
	children, err := r.Submodules(ctx)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	var matches []*Repo
	for _, child := range children {
		if child.matches(term) {
			matches = append(matches, child)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

// Submodule returns the submodule named term, or the first search match
func (r *Repo) Submodule(ctx context.Context, term string) (*Repo, error) {
	children, err := r.Submodules(ctx)
	if err != nil {
		return nil, err
	}
	if child, ok := children[term]; ok {
		return child, nil
	}

	matches, err := r.SearchSubmodules(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSubmoduleNotFound, term)
	}
	return matches[0], nil
}

func (r *Repo) matches(term string) bool {
	if term == "" {
		return true
	}

	candidates := []string{r.Name}
	if r.Scan != nil {
		candidates = append(candidates, r.Scan.ModulePath, r.Scan.DisplayPath)
	} else {
		candidates = append(candidates, r.Path)
	}
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), term) {
			return true
		}
	}
	return false
}

// replaceSubmodules builds child handles from records and swaps them in
func (r *Repo) replaceSubmodules(records []SubmoduleRecord) map[string]*Repo {
	children := make(map[string]*Repo, len(records))
	for _, record := range records {
		path, err := git.ResolveDir(record.Path())
		if err != nil {
			r.registry.log.Debug("skipping submodule %s of %s: %v", record.Name, r.Name, err)
			continue
		}

		child := newRepo(record.Name, path, r.registry)
		scan := record
		child.Scan = &scan
		children[record.Name] = child
	}

	r.mu.Lock()
	r.submodules = children
	r.scanned = true
	r.mu.Unlock()

	return copySubmodules(children)
}

func copySubmodules(src map[string]*Repo) map[string]*Repo {
	dst := make(map[string]*Repo, len(src))
	for name, child := range src {
		dst[name] = child
	}
	return dst
}
