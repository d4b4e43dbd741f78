package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorderCounters(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.AddPagesTouched(3)
	rec.AddPagesCached(2)
	rec.IncBuildOutcome("success")
	rec.ObserveBuildDuration(125 * time.Millisecond)

	assert.Equal(t, float64(3), testutil.ToFloat64(rec.pagesTouched))
	assert.Equal(t, float64(2), testutil.ToFloat64(rec.pagesCached))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.buildOutcome.WithLabelValues("success")))
}

func TestNoopRecorderIsSafe(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.ObserveBuildDuration(time.Second)
	rec.AddPagesTouched(1)
	rec.AddPagesCached(1)
	rec.IncBuildOutcome("failed")
}
