package app

import (
	"context"
	"os"
	"sync"

	"github.com/vk/jsbm/internal/report"
)

// fakeExecutor stands in for a JavaScript runtime: it prints canned lines
// and remembers the scripts it was asked to run.
type fakeExecutor struct {
	mu sync.Mutex

	version    string
	versionErr error
	output     map[string][]string
	failOn     map[string]error
	block      bool

	calls   []string
	scripts []string
}

func (f *fakeExecutor) Version(_ context.Context, _ string) (string, error) {
	if f.versionErr != nil {
		return "", f.versionErr
	}
	if f.version == "" {
		return "1.0.0", nil
	}
	return f.version, nil
}

func (f *fakeExecutor) Execute(ctx context.Context, runtime, scriptPath string, onLine func(string)) error {
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, runtime+":"+scriptPath)
	f.scripts = append(f.scripts, string(script))
	f.mu.Unlock()

	for _, line := range f.output[runtime] {
		onLine(line)
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.failOn[runtime]
}

func (f *fakeExecutor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeExecutor) Scripts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.scripts...)
}

type fakeSink struct {
	mu      sync.Mutex
	results []report.Result
	closed  bool
}

func (s *fakeSink) Publish(_ context.Context, r report.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
