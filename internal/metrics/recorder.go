// Package metrics provides observability hooks for site builds. Components
// receive a Recorder through dependency injection; the default NoopRecorder
// keeps the hot path free of nil checks and overhead.
package metrics

import "time"

// Recorder defines the build metrics surface. Implementations may forward to
// Prometheus or stay no-ops.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	AddPagesTouched(n int)
	AddPagesCached(n int)
	IncBuildOutcome(outcome string) // outcome: success|partial|failed
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) AddPagesTouched(int)                {}
func (NoopRecorder) AddPagesCached(int)                 {}
func (NoopRecorder) IncBuildOutcome(string)             {}
