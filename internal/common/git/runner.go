package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/obentoo/gitkit/internal/common/logger"
)

// DefaultCommandTimeout bounds a git command when the caller's context has no deadline.
const DefaultCommandTimeout = 5 * time.Minute

// ExecRunner runs command lines as subprocesses.
// The line is split with POSIX shell word rules and executed without a shell.
type ExecRunner struct {
	// Timeout applies when ctx carries no deadline. Zero disables it.
	Timeout time.Duration
	Log     *logger.Logger
}

// NewExecRunner creates an ExecRunner with the given timeout
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		Timeout: timeout,
		Log:     logger.Default(),
	}
}

// Run executes commandLine in dir and captures exit status, stdout and stderr.
func (r *ExecRunner) Run(ctx context.Context, dir, commandLine string) (*Outcome, error) {
	workDir, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}

	argv, err := shellquote.Split(commandLine)
	if err != nil {
		return nil, &ProcessFailedError{Command: commandLine, Dir: workDir, Err: err}
	}
	if len(argv) == 0 {
		return nil, &ProcessFailedError{Command: commandLine, Dir: workDir, Err: errors.New("empty command line")}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	r.logger().Debug("running %s (in %s)", commandLine, workDir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = workDir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	outcome := &Outcome{
		Command:   commandLine,
		Dir:       workDir,
		Succeeded: runErr == nil,
		Stdout:    stdoutBuf.String(),
		Stderr:    stderrBuf.String(),
	}

	if runErr == nil {
		return outcome, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &ProcessFailedError{
			Command: commandLine,
			Dir:     workDir,
			Stderr:  outcome.Stderr,
			Err:     fmt.Errorf("%w: %v", ctxErr, runErr),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
		r.logger().Debug("%s exited with status %d", commandLine, outcome.ExitCode)
		return outcome, nil
	}

	// The process never started (binary missing, permission denied).
	return nil, &ProcessFailedError{Command: commandLine, Dir: workDir, Err: runErr}
}

func (r *ExecRunner) logger() *logger.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logger.Default()
}

// Ensure ExecRunner implements Runner interface
var _ Runner = (*ExecRunner)(nil)
