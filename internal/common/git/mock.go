package git

import (
	"context"
	"sync"
)

// Call records one invocation seen by MockRunner.
type Call struct {
	Dir         string
	CommandLine string
}

// MockRunner implements Runner for testing.
// RunFunc controls the result; when nil every call succeeds with empty output.
// The working directory is not checked unless ResolveDirs is set.
type MockRunner struct {
	RunFunc     func(ctx context.Context, dir, commandLine string) (*Outcome, error)
	ResolveDirs bool

	mu    sync.Mutex
	calls []Call
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Run records the call and delegates to RunFunc
func (m *MockRunner) Run(ctx context.Context, dir, commandLine string) (*Outcome, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Dir: dir, CommandLine: commandLine})
	m.mu.Unlock()

	if m.ResolveDirs {
		resolved, err := ResolveDir(dir)
		if err != nil {
			return nil, err
		}
		dir = resolved
	}

	if m.RunFunc != nil {
		return m.RunFunc(ctx, dir, commandLine)
	}
	return &Outcome{Command: commandLine, Dir: dir, Succeeded: true}, nil
}

// Calls returns a copy of every call made so far
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Run was called
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset forgets recorded calls
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Ensure MockRunner implements Runner interface
var _ Runner = (*MockRunner)(nil)
