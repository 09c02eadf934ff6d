package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vk/jsbm/internal/app"
	"github.com/vk/jsbm/internal/config"
	"github.com/vk/jsbm/internal/host"
	"github.com/vk/jsbm/internal/report"
	"golang.org/x/term"
)

// Version is reported by --version. Release builds set it with -ldflags.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

const longHelp = `jsbm benchmarks the named snippets of JavaScript and TypeScript documents.

A snippet starts at a line "//jsbm <name> {" and runs until the next
declaration; "//jsbm }" ends it. Every other line is kept as is, so setup code
runs once before the snippets that follow it.

Runtimes (bun, deno, node) may be given before the documents, as in
"jsbm bun node bench.js", or with --runtime, but not both. --md is the same
as --format markdown and cannot be combined with another --format.`

type flags struct {
	iterations       int
	samples          int
	runtimes         []string
	format           string
	markdown         bool
	keep             bool
	code             bool
	filter           string
	configPath       string
	envFile          string
	publishURL       string
	publishNamespace string
	publishEvent     string
	publishTimeout   time.Duration
	webhookURL       string
	webhookTimeout   time.Duration
	noColor          bool
	logLevel         string
	logFormat        string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		f      flags
		result *app.Config
	)

	cmd := &cobra.Command{
		Use:           "jsbm [runtime...] [document...]",
		Short:         "Benchmark annotated JavaScript and TypeScript snippets",
		Long:          longHelp,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd.Flags(), &f, args, output)
			if err != nil {
				return err
			}
			if cfg == nil {
				return cmd.Help()
			}
			result = cfg
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.IntVarP(&f.iterations, "iterations", "i", 1, "Run the snippet this many times per sample.")
	fs.IntVarP(&f.samples, "samples", "s", 1000, "Number of timed samples per snippet.")
	fs.StringSliceVarP(&f.runtimes, "runtime", "r", []string{"node"}, "Runtime to benchmark with: bun, deno or node. Repeatable.")
	fs.StringVar(&f.format, "format", report.FormatText, "Output format: text, markdown or json.")
	fs.BoolVar(&f.markdown, "md", false, "Shorthand for --format markdown.")
	fs.BoolVar(&f.keep, "keep", false, "Keep the generated benchmark scripts.")
	fs.BoolVar(&f.code, "code", false, "Print the code of every benchmarked snippet.")
	fs.StringVar(&f.filter, "filter", "", "Only run snippets whose name fuzzy-matches this pattern.")
	fs.StringVar(&f.configPath, "config", "", "Path to an HCL configuration file.")
	fs.StringVar(&f.envFile, "env-file", "", "Dotenv file overlaid on the environment seen by the configuration file.")
	fs.StringVar(&f.publishURL, "publish-url", "", "Stream results to this socket.io server.")
	fs.StringVar(&f.publishNamespace, "publish-namespace", "", "socket.io namespace for published results (default \"/\").")
	fs.StringVar(&f.publishEvent, "publish-event", "", "Event name for published results (default \"jsbm:result\").")
	fs.DurationVar(&f.publishTimeout, "publish-timeout", 0, "How long to wait for the socket.io connection (default 10s).")
	fs.StringVar(&f.webhookURL, "webhook-url", "", "POST every result as JSON to this URL.")
	fs.DurationVar(&f.webhookTimeout, "webhook-timeout", 0, "Timeout of a single webhook request (default 10s).")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.BoolP("version", "V", false, "Print the version and exit.")

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, usageError(err)
	}

	if result == nil {
		// Help or version was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", result)
	return result, false, nil
}

// buildConfig merges defaults, the configuration file and explicitly set
// flags, in that order of precedence. It returns nil when there is nothing
// to benchmark.
func buildConfig(fs *pflag.FlagSet, f *flags, args []string, output io.Writer) (*app.Config, error) {
	if f.markdown && fs.Changed("format") && f.format != report.FormatMarkdown {
		return nil, usageError(fmt.Errorf("--md conflicts with --format %s", f.format))
	}

	cfg := app.Config{
		Samples:    f.samples,
		Iterations: f.iterations,
		Runtimes:   f.runtimes,
		Format:     f.format,
		Keep:       f.keep,
		PrintCode:  f.code,
		Filter:     f.filter,
		LogLevel:   f.logLevel,
		LogFormat:  f.logFormat,
	}

	if f.configPath != "" {
		env, err := config.Environ(f.envFile)
		if err != nil {
			return nil, usageError(err)
		}
		file, err := config.Load(context.Background(), f.configPath, env)
		if err != nil {
			return nil, usageError(err)
		}
		applyFile(&cfg, file)
	}

	runtimes, paths := splitArgs(args)
	if len(runtimes) > 0 && fs.Changed("runtime") {
		return nil, usageError(errors.New("runtimes given both as arguments and with --runtime"))
	}
	if len(paths) > 0 {
		cfg.Paths = paths
	}
	if len(runtimes) > 0 {
		cfg.Runtimes = runtimes
	}
	if len(cfg.Paths) == 0 {
		slog.Debug("No document provided, printing usage and exiting.")
		return nil, nil
	}

	applyFlags(fs, &cfg, f)
	cfg.Color = colorEnabled(output, f.noColor)

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return validated, nil
}

func applyFile(cfg *app.Config, file *config.File) {
	if len(file.Documents) > 0 {
		cfg.Paths = file.Documents
	}
	if file.Samples != nil {
		cfg.Samples = *file.Samples
	}
	if file.Iterations != nil {
		cfg.Iterations = *file.Iterations
	}
	if len(file.Runtimes) > 0 {
		cfg.Runtimes = file.Runtimes
	}
	if file.Format != nil {
		cfg.Format = *file.Format
	}
	if file.Keep != nil {
		cfg.Keep = *file.Keep
	}
	if file.Code != nil {
		cfg.PrintCode = *file.Code
	}
	if file.Filter != nil {
		cfg.Filter = *file.Filter
	}
	if p := file.Publish; p != nil {
		// Load has already validated the timeout.
		timeout, _ := p.TimeoutDuration()
		cfg.Publish = &app.PublishConfig{URL: p.URL, Timeout: timeout}
		if p.Namespace != nil {
			cfg.Publish.Namespace = *p.Namespace
		}
		if p.Event != nil {
			cfg.Publish.Event = *p.Event
		}
		if p.InsecureSkipVerify != nil {
			cfg.Publish.InsecureSkipVerify = *p.InsecureSkipVerify
		}
	}
	if w := file.Webhook; w != nil {
		timeout, _ := w.TimeoutDuration()
		cfg.Webhook = &app.WebhookConfig{URL: w.URL, Timeout: timeout}
	}
}

// applyFlags overrides cfg with every flag given on the command line.
func applyFlags(fs *pflag.FlagSet, cfg *app.Config, f *flags) {
	if fs.Changed("samples") {
		cfg.Samples = f.samples
	}
	if fs.Changed("iterations") {
		cfg.Iterations = f.iterations
	}
	if fs.Changed("runtime") {
		cfg.Runtimes = f.runtimes
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if f.markdown {
		cfg.Format = report.FormatMarkdown
	}
	if fs.Changed("keep") {
		cfg.Keep = f.keep
	}
	if fs.Changed("code") {
		cfg.PrintCode = f.code
	}
	if fs.Changed("filter") {
		cfg.Filter = f.filter
	}

	if fs.Changed("webhook-url") {
		if cfg.Webhook == nil {
			cfg.Webhook = &app.WebhookConfig{}
		}
		cfg.Webhook.URL = f.webhookURL
	}
	if cfg.Webhook != nil && fs.Changed("webhook-timeout") {
		cfg.Webhook.Timeout = f.webhookTimeout
	}

	if fs.Changed("publish-url") {
		if cfg.Publish == nil {
			cfg.Publish = &app.PublishConfig{}
		}
		cfg.Publish.URL = f.publishURL
	}
	if cfg.Publish == nil {
		return
	}
	if fs.Changed("publish-namespace") {
		cfg.Publish.Namespace = f.publishNamespace
	}
	if fs.Changed("publish-event") {
		cfg.Publish.Event = f.publishEvent
	}
	if fs.Changed("publish-timeout") {
		cfg.Publish.Timeout = f.publishTimeout
	}
}

// splitArgs separates leading runtime names from document paths. A leading
// argument naming an existing file is a document even if it is called "node".
func splitArgs(args []string) (runtimes, paths []string) {
	i := 0
	for ; i < len(args); i++ {
		if !slices.Contains(host.Runtimes(), args[i]) {
			break
		}
		if _, err := os.Stat(args[i]); err == nil {
			break
		}
		runtimes = append(runtimes, args[i])
	}
	return runtimes, args[i:]
}

// colorEnabled reports whether output should carry ANSI colors: only on a
// terminal, and never when NO_COLOR is set or --no-color is given.
func colorEnabled(output io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := output.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
