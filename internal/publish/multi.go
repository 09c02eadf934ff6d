package publish

import (
	"context"
	"errors"

	"github.com/vk/jsbm/internal/report"
)

// Multi fans results out to several sinks. A failing sink does not keep the
// others from receiving the result.
type Multi []Sink

// Publish implements Sink.
func (m Multi) Publish(ctx context.Context, r report.Result) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Sink.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
