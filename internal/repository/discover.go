package repository

import (
	gogit "github.com/go-git/go-git/v5"
	"github.com/obentoo/gitkit/internal/common/git"
)

// FindRoot returns the root of the working tree containing path, walking up
// through parent directories until a .git entry is found.
func FindRoot(path string) (string, error) {
	dir, err := git.ResolveDir(path)
	if err != nil {
		return "", err
	}

	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", &git.InvalidPathError{Path: path, Reason: "is not inside a git working tree"}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", &git.InvalidPathError{Path: path, Reason: "has no working tree"}
	}

	return git.ResolveDir(worktree.Filesystem.Root())
}
