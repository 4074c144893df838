package git

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below matches one of these through errors.Is.
var (
	ErrInvalidSubcommand   = errors.New("invalid subcommand")
	ErrInvalidPath         = errors.New("invalid path")
	ErrInvalidURL          = errors.New("invalid url")
	ErrRepoExists          = errors.New("repository already exists")
	ErrProcessFailed       = errors.New("git command failed")
	ErrMalformedScanOutput = errors.New("malformed scan output")
)

// InvalidSubcommandError reports a subcommand missing from the family's allow-list.
type InvalidSubcommandError struct {
	Family     string
	Subcommand string
}

func (e *InvalidSubcommandError) Error() string {
	if e.Subcommand == "" {
		return fmt.Sprintf("command %q requires a subcommand", e.Family)
	}
	return fmt.Sprintf("subcommand %q is not in the allowed list of command %q", e.Subcommand, e.Family)
}

// Is returns true if the target error is ErrInvalidSubcommand
func (e *InvalidSubcommandError) Is(target error) bool {
	return target == ErrInvalidSubcommand
}

// InvalidPathError reports a path that does not resolve to a usable directory.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("path %s %s", e.Path, e.Reason)
}

// Is returns true if the target error is ErrInvalidPath
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// InvalidURLError reports a malformed clone source.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("url %q is invalid", e.URL)
}

// Is returns true if the target error is ErrInvalidURL
func (e *InvalidURLError) Is(target error) bool {
	return target == ErrInvalidURL
}

// RepoExistsError reports a name collision in a registry.
type RepoExistsError struct {
	Name string
}

func (e *RepoExistsError) Error() string {
	return fmt.Sprintf("repository %q already exists", e.Name)
}

// Is returns true if the target error is ErrRepoExists
func (e *RepoExistsError) Is(target error) bool {
	return target == ErrRepoExists
}

// ProcessFailedError reports a git invocation that did not complete successfully,
// either because it exited non-zero or because it could not be run at all.
type ProcessFailedError struct {
	Command  string
	Dir      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessFailedError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\nstderr: " + stderr
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrProcessFailed
func (e *ProcessFailedError) Is(target error) bool {
	return target == ErrProcessFailed
}

func (e *ProcessFailedError) Unwrap() error {
	return e.Err
}

// MalformedScanOutputError reports submodule scan output that could not be decoded.
// Line is 1-based; zero means the error is not tied to a line.
type MalformedScanOutputError struct {
	Line   int
	Reason string
}

func (e *MalformedScanOutputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed scan output at line %d: %s", e.Line, e.Reason)
	}
	return "malformed scan output: " + e.Reason
}

// Is returns true if the target error is ErrMalformedScanOutput
func (e *MalformedScanOutputError) Is(target error) bool {
	return target == ErrMalformedScanOutput
}
