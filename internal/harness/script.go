package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/jsbm/internal/document"
)

var (
	ErrInvalidSamples    = errors.New("samples must be at least 1")
	ErrInvalidIterations = errors.New("iterations must be at least 1")
	ErrInvalidMode       = errors.New("unknown harness mode")
)

// Options configures a Generator.
type Options struct {
	Samples    int
	Iterations int
	Mode       Mode
	Color      bool
}

// Generator builds benchmark scripts. It holds no state besides its options
// and is safe for concurrent use.
type Generator struct {
	opts    Options
	helpers string
}

// NewGenerator validates opts and returns a Generator for them.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Samples < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSamples, opts.Samples)
	}
	if opts.Iterations < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidIterations, opts.Iterations)
	}
	if !opts.Mode.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, opts.Mode)
	}
	return &Generator{opts: opts, helpers: Helpers(opts.Mode, opts.Color)}, nil
}

// Options returns the options the generator was built with.
func (g *Generator) Options() Options {
	return g.opts
}

// Script returns the heading, the helper library and items in order, with
// content copied verbatim and snippets wrapped in timing blocks.
func (g *Generator) Script(items []document.Item) string {
	parts := make([]string, 0, len(items)+2)
	parts = append(parts, Heading(g.opts.Iterations, g.opts.Samples), g.helpers)

	for _, item := range items {
		switch it := item.(type) {
		case document.Content:
			parts = append(parts, it.Text)
		case document.Snippet:
			parts = append(parts, Wrap(it, g.opts.Samples, g.opts.Iterations))
		default:
			panic(fmt.Sprintf("harness: unknown item type %T", item))
		}
	}

	return strings.Join(parts, "\n") + "\n"
}
