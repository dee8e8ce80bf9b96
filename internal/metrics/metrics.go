package metrics

import (
	"context"
	"time"
)

// MessagesStored counts submissions that made it through the pipeline.
const MessagesStored = "MessagesStored"

// Sink accepts counter data points.
type Sink interface {
	Count(ctx context.Context, name string, value float64, ts time.Time) error
}

// Multi fans a data point out to every sink in order and stops at the first error.
type Multi []Sink

func (m Multi) Count(ctx context.Context, name string, value float64, ts time.Time) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Count(ctx, name, value, ts); err != nil {
			return err
		}
	}
	return nil
}
