package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/vk/jsbm/internal/ctxlog"
	"github.com/vk/jsbm/internal/document"
	"github.com/vk/jsbm/internal/fsutil"
	"github.com/vk/jsbm/internal/harness"
	"github.com/vk/jsbm/internal/host"
	"github.com/vk/jsbm/internal/publish"
	"github.com/vk/jsbm/internal/report"
)

// ErrNoDocuments is returned when the configured paths hold no documents.
var ErrNoDocuments = errors.New("no documents found")

// codeRuleWidth is the width of the dotted rules around printed code.
const codeRuleWidth = 32

// documentError is a per-document failure. Its message is the short text shown
// to the user; the cause goes to the log.
type documentError struct {
	op  string
	err error
}

func (e *documentError) Error() string { return e.op }
func (e *documentError) Unwrap() error { return e.err }

// run holds what every document of one Run shares.
type run struct {
	generator *harness.Generator
	formatter report.Formatter
	sink      publish.Sink
	versions  map[string]string
}

// Run benchmarks every configured document on every configured runtime. It
// returns an error when a runtime cannot be probed, when ctx is cancelled, or
// when at least one document failed.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	docs, err := fsutil.CollectDocuments(a.config.Paths)
	if err != nil {
		return fmt.Errorf("failed collecting documents: %w", err)
	}
	if len(docs) == 0 {
		return ErrNoDocuments
	}
	a.logger.Debug("Documents collected.", "count", len(docs))

	versions := make(map[string]string, len(a.config.Runtimes))
	for _, rt := range a.config.Runtimes {
		v, err := a.executor.Version(ctx, rt)
		if err != nil {
			return fmt.Errorf("runtime %s is not available: %w", rt, err)
		}
		versions[rt] = v
		a.logger.Debug("Runtime probed.", "runtime", rt, "version", v)
	}

	mode := harness.ModeText
	switch {
	case a.structured():
		mode = harness.ModeStructured
	case a.config.Format == report.FormatMarkdown:
		mode = harness.ModeMarkdown
	}
	gen, err := harness.NewGenerator(harness.Options{
		Samples:    a.config.Samples,
		Iterations: a.config.Iterations,
		Mode:       mode,
		Color:      a.config.Color,
	})
	if err != nil {
		return fmt.Errorf("invalid harness options: %w", err)
	}

	formatter, err := report.New(a.config.Format, a.config.Color, mode == harness.ModeStructured)
	if err != nil {
		return err
	}

	sink, err := a.openSink(ctx)
	if err != nil {
		return err
	}
	if sink != nil {
		defer func() {
			if err := sink.Close(); err != nil {
				a.logger.Warn("Failed closing result publisher.", "error", err)
			}
		}()
	}

	r := &run{generator: gen, formatter: formatter, sink: sink, versions: versions}

	failed := 0
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		if !a.runDocument(ctx, r, doc) {
			failed++
		}
	}

	if err := ctx.Err(); err != nil {
		a.logger.Warn("Run interrupted.", "error", err)
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// openSink connects every configured publisher. A sink given with WithSink
// replaces them.
func (a *App) openSink(ctx context.Context) (publish.Sink, error) {
	if a.sink != nil {
		return a.sink, nil
	}

	var sinks publish.Multi
	if p := a.config.Publish; p != nil {
		s, err := a.dial(ctx, publish.Options{
			URL:                p.URL,
			Namespace:          p.Namespace,
			Event:              p.Event,
			Timeout:            p.Timeout,
			InsecureSkipVerify: p.InsecureSkipVerify,
		})
		if err != nil {
			return nil, fmt.Errorf("failed connecting result publisher: %w", err)
		}
		sinks = append(sinks, s)
	}
	if w := a.config.Webhook; w != nil {
		hook, err := publish.NewWebhook(w.URL, w.Timeout)
		if err != nil {
			_ = sinks.Close()
			return nil, fmt.Errorf("failed creating webhook publisher: %w", err)
		}
		sinks = append(sinks, hook)
	}

	switch len(sinks) {
	case 0:
		return nil, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

// runDocument benchmarks one document on every runtime and reports whether it
// went through without failures. A cancelled run is not a failure.
func (a *App) runDocument(ctx context.Context, r *run, path string) (ok bool) {
	ctx = ctxlog.With(ctx, "path", path)
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		return a.fail(r, path, &documentError{op: "failed reading", err: err})
	}

	items, err := document.Parse(string(src))
	if err != nil {
		return a.fail(r, path, &documentError{op: "failed parsing", err: err})
	}
	items = document.Filter(items, a.config.Filter)
	logger.Debug("Document parsed.", "items", len(items), "snippets", len(document.Snippets(items)))

	if a.config.PrintCode {
		a.printCode(path, items)
	}

	out := host.OutputPath(path)
	if err := os.WriteFile(out, []byte(r.generator.Script(items)), 0o644); err != nil {
		return a.fail(r, path, &documentError{op: "failed writing", err: err})
	}
	logger.Debug("Benchmark script written.", "script", out)

	ok = true
	if !a.config.Keep {
		defer func() {
			if err := os.Remove(out); err != nil && !errors.Is(err, fs.ErrNotExist) {
				ok = a.fail(r, path, &documentError{op: "failed removing", err: err})
			}
		}()
	}

	for _, rt := range a.config.Runtimes {
		r.formatter.Banner(a.outW, report.Banner{
			Document:   path,
			Runtime:    rt,
			Version:    r.versions[rt],
			Iterations: a.config.Iterations,
			Samples:    a.config.Samples,
		})

		rctx := ctxlog.With(ctx, "runtime", rt)
		err := a.executor.Execute(rctx, rt, out, a.lineHandler(rctx, r, path, rt))
		if ctx.Err() != nil {
			return true
		}
		if err != nil {
			ok = a.fail(r, path, &documentError{op: rt + " failed", err: err})
		}
	}
	return ok
}

// fail reports a document failure and returns false.
func (a *App) fail(r *run, path string, err *documentError) bool {
	a.logger.Warn("Document failed.", "path", path, "step", err.op, "error", err.err)
	r.formatter.Failure(a.outW, path, err.Error())
	return false
}

// lineHandler returns the callback receiving the script's stdout lines.
func (a *App) lineHandler(ctx context.Context, r *run, path, rt string) func(string) {
	logger := ctxlog.FromContext(ctx)
	return func(line string) {
		if !a.structured() {
			fmt.Fprintln(a.outW, line)
			return
		}

		rec, isRecord, err := report.DecodeRecord(line)
		if !isRecord {
			a.passThrough(logger, line)
			return
		}
		if err != nil {
			logger.Warn("Discarding malformed result record.", "error", err)
			return
		}

		res := rec.Resolve(path, rt)
		r.formatter.Result(a.outW, res)
		if r.sink == nil {
			return
		}
		if err := r.sink.Publish(ctx, res); err != nil {
			logger.Warn("Failed publishing result.", "name", res.Name, "error", err)
		}
	}
}

// passThrough forwards output the document itself printed. JSON output stays
// machine readable, so there it goes to the log instead.
func (a *App) passThrough(logger *slog.Logger, line string) {
	if a.config.Format == report.FormatJSON {
		logger.Info("Script output.", "line", line)
		return
	}
	fmt.Fprintln(a.outW, line)
}

// printCode writes every snippet's code between rules naming its document.
func (a *App) printCode(path string, items []document.Item) {
	for _, s := range document.Snippets(items) {
		label := shortPath(path) + "@" + s.Name
		if a.config.Format == report.FormatMarkdown {
			lang := "js"
			if strings.HasSuffix(path, "ts") {
				lang = "ts"
			}
			fmt.Fprintf(a.outW, "*%s*\n```%s\n%s\n```\n", label, lang, s.Code)
			continue
		}
		fmt.Fprintf(a.outW, "%s%s\n%s\n%s\n",
			strings.Repeat(".", max(0, codeRuleWidth-len(label))), label, s.Code, strings.Repeat(".", codeRuleWidth))
	}
}

// shortPath keeps about the last ten bytes of long paths, never splitting a
// multi-byte character.
func shortPath(path string) string {
	path = filepath.ToSlash(path)
	if len(path) <= 10 {
		return path
	}
	i := len(path) - 10
	for i > 0 && !utf8.RuneStart(path[i]) {
		i--
	}
	return "..." + path[i:]
}
