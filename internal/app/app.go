package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/jsbm/internal/host"
	"github.com/vk/jsbm/internal/publish"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	executor host.Executor
	sink     publish.Sink
	dial     func(context.Context, publish.Options) (publish.Sink, error)
}

// Option customizes an App.
type Option func(*App)

// WithExecutor replaces the runtime executor, which defaults to a host.Runner
// forwarding runtime stderr to the log writer.
func WithExecutor(e host.Executor) Option {
	return func(a *App) { a.executor = e }
}

// WithSink publishes results to s instead of dialing Config.Publish. Passing
// a sink switches scripts to structured output even without Config.Publish.
func WithSink(s publish.Sink) Option {
	return func(a *App) { a.sink = s }
}

// NewApp is the constructor for the main application. Results go to outW,
// logs and runtime diagnostics to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		dial: func(ctx context.Context, o publish.Options) (publish.Sink, error) {
			return publish.Dial(ctx, o)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.executor == nil {
		a.executor = host.NewRunner(logW)
	}
	return a
}

// structured reports whether this app reduces and renders results itself.
func (a *App) structured() bool {
	return a.config.structured() || a.sink != nil
}
