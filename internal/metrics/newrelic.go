package metrics

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicSink mirrors counters as New Relic custom metrics. The agent
// aggregates them itself, so the timestamp is ignored.
type NewRelicSink struct {
	app *newrelic.Application
}

func NewNewRelicSink(app *newrelic.Application) *NewRelicSink {
	return &NewRelicSink{app: app}
}

func (s *NewRelicSink) Count(_ context.Context, name string, value float64, _ time.Time) error {
	if s == nil || s.app == nil {
		return nil
	}
	// The agent prefixes the name with Custom/.
	s.app.RecordCustomMetric(DimensionValue+"/"+name, value)
	return nil
}
