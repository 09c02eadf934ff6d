// Package host runs generated benchmark scripts with an external JavaScript
// runtime and streams what they print.
package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/vk/jsbm/internal/ctxlog"
)

// Runtimes lists the JavaScript runtimes jsbm knows how to drive.
func Runtimes() []string {
	return []string{"bun", "deno", "node"}
}

// Executor is the boundary between jsbm and a JavaScript runtime.
type Executor interface {
	// Version returns the runtime's version, for banners.
	Version(ctx context.Context, runtime string) (string, error)
	// Execute runs scriptPath to completion, calling onLine for every line
	// the script prints to stdout, in order.
	Execute(ctx context.Context, runtime, scriptPath string, onLine func(string)) error
}

// maxLineSize bounds a single stdout line; structured records carry every
// sample of a snippet on one line.
const maxLineSize = 64 << 20

var semverPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// Runner is an Executor backed by runtime executables found on PATH (or given
// as paths).
type Runner struct {
	stderr io.Writer

	mu       sync.Mutex
	versions map[string]string
}

// NewRunner returns a Runner that forwards the runtimes' stderr to stderr.
func NewRunner(stderr io.Writer) *Runner {
	return &Runner{stderr: stderr, versions: make(map[string]string)}
}

// Version runs "<runtime> --version" once per runtime and returns the first
// x.y.z found in its output, or the whole trimmed output if there is none.
func (r *Runner) Version(ctx context.Context, runtime string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.versions[runtime]; ok {
		return v, nil
	}

	out, err := exec.CommandContext(ctx, runtime, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed probing %s version: %w", runtime, err)
	}

	v := semverPattern.FindString(string(out))
	if v == "" {
		v = strings.TrimSpace(string(out))
	}
	r.versions[runtime] = v
	return v, nil
}

// Execute implements Executor. A non-zero exit status and a cancelled ctx
// are both reported as errors, after every line printed so far has been
// delivered.
func (r *Runner) Execute(ctx context.Context, runtime, scriptPath string, onLine func(string)) error {
	args := Args(runtime, scriptPath)
	ctxlog.FromContext(ctx).Debug("Starting runtime.", "command", runtime, "args", args)

	cmd := exec.CommandContext(ctx, runtime, args...)
	cmd.Stderr = r.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed creating stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed starting %s: %w", runtime, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the child from blocking on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%s interrupted: %w", runtime, ctx.Err())
	case waitErr != nil:
		return fmt.Errorf("%s exited with error: %w", runtime, waitErr)
	case scanErr != nil:
		return fmt.Errorf("failed reading %s output: %w", runtime, scanErr)
	}
	return nil
}

// Args returns the command line arguments used to run scriptPath with
// runtime. runtime may be a path; only its base name selects the flags.
func Args(runtime, scriptPath string) []string {
	switch filepath.Base(runtime) {
	case "node":
		args := []string{"--trace-uncaught"}
		if isTypeScript(scriptPath) {
			args = append(args, "--experimental-strip-types", "--no-warnings=ExperimentalWarning")
		}
		return append(args, scriptPath)
	case "deno":
		return []string{"run", scriptPath}
	default:
		return []string{scriptPath}
	}
}

// OutputPath returns where the script generated for document is written:
// "bench.ts" becomes "bench.jsbm.ts".
func OutputPath(document string) string {
	ext := filepath.Ext(document)
	if ext == "" {
		return document + ".jsbm"
	}
	return strings.TrimSuffix(document, ext) + ".jsbm" + ext
}

func isTypeScript(path string) bool {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
		return true
	}
	return false
}
