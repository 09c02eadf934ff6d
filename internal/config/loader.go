package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/jsbm/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Load parses and decodes the configuration file at path, evaluating its
// expressions against env. Document patterns are resolved relative to the
// file's directory.
func Load(ctx context.Context, path string, env map[string]string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration file.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var file File
	diags = gohcl.DecodeBody(hclFile.Body, EvalContext(env), &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	docs, err := expandDocuments(filepath.Dir(path), file.Documents)
	if err != nil {
		return nil, fmt.Errorf("invalid documents in %s: %w", path, err)
	}
	file.Documents = docs

	if file.Publish != nil {
		if _, err := file.Publish.TimeoutDuration(); err != nil {
			return nil, fmt.Errorf("invalid publish block in %s: %w", path, err)
		}
	}

	if file.Webhook != nil {
		if _, err := file.Webhook.TimeoutDuration(); err != nil {
			return nil, fmt.Errorf("invalid webhook block in %s: %w", path, err)
		}
	}

	logger.Debug("Configuration file loaded.", "path", path, "documents", len(file.Documents), "publish", file.Publish != nil, "webhook", file.Webhook != nil)
	return &file, nil
}

// EvalContext returns the evaluation context for configuration expressions.
func EvalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"coalesce": stdlib.CoalesceFunc,
			"max":      stdlib.MaxFunc,
			"min":      stdlib.MinFunc,
		},
	}
}

// expandDocuments resolves patterns against dir. A pattern without glob
// metacharacters is kept even when nothing exists there, so that the missing
// file is reported where documents are read.
func expandDocuments(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var out []string
	for _, p := range patterns {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if !strings.ContainsAny(p, "*?[") {
			out = append(out, p)
			continue
		}

		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no documents", p)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}
