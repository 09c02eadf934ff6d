// Package publish forwards benchmark results to external consumers while a
// run is in progress.
package publish

import (
	"context"

	"github.com/vk/jsbm/internal/report"
)

// Sink receives every result of a run, in order.
type Sink interface {
	Publish(ctx context.Context, r report.Result) error
	Close() error
}

// payload is the wire form of a result. Statistics are flattened so that
// consumers do not depend on the Go-side nesting.
func payload(r report.Result) map[string]any {
	p := map[string]any{
		"document": r.Document,
		"runtime":  r.Runtime,
		"name":     r.Name,
	}
	if r.Failed() {
		p["error"] = r.Error
		return p
	}
	p["mean_us"] = r.Stats.Mean
	p["std_us"] = r.Stats.Std
	p["outliers_pct"] = r.Stats.Outliers
	return p
}
