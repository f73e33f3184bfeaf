// Package metrics provides a small fluent recorder for render-session metrics.
// A Recorder accumulates dimensions, values and properties for one operation
// and emits them as a single structured zerolog event on Flush, so metrics end
// up in the same stream as the rest of the session diagnostics.
package metrics

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Metric units.
const (
	UnitMilliseconds = "Milliseconds"
	UnitCount        = "Count"
	UnitBytes        = "Bytes"
	UnitNone         = "None"
)

// Namespace is the default namespace for frame-render metrics.
const Namespace = "FrameRender"

type metricDef struct {
	name  string
	unit  string
	value float64
}

// Recorder accumulates dimensions, metrics, and properties for a single flush.
// It is NOT safe for concurrent use from multiple goroutines; create one per operation.
type Recorder struct {
	logger     zerolog.Logger
	namespace  string
	dimensions map[string]string
	metrics    map[string]metricDef
	properties map[string]interface{}
}

// New creates a Recorder that writes to the global logger.
func New(namespace string) *Recorder {
	return NewWithLogger(log.Logger, namespace)
}

// NewWithLogger creates a Recorder that writes to logger.
func NewWithLogger(logger zerolog.Logger, namespace string) *Recorder {
	return &Recorder{
		logger:     logger,
		namespace:  namespace,
		dimensions: make(map[string]string),
		metrics:    make(map[string]metricDef),
		properties: make(map[string]interface{}),
	}
}

// Dimension adds a dimension key-value pair.
func (r *Recorder) Dimension(key, value string) *Recorder {
	r.dimensions[key] = value
	return r
}

// Metric records a named metric value with a unit.
// Use the Unit* constants (UnitMilliseconds, UnitCount, UnitBytes, UnitNone).
func (r *Recorder) Metric(name string, value float64, unit string) *Recorder {
	r.metrics[name] = metricDef{name: name, unit: unit, value: value}
	return r
}

// Count is a convenience for recording a count metric (value = 1).
func (r *Recorder) Count(name string) *Recorder {
	return r.Metric(name, 1, UnitCount)
}

// Property adds a non-metric field to the event.
func (r *Recorder) Property(key string, value interface{}) *Recorder {
	r.properties[key] = value
	return r
}

// Flush emits the accumulated metrics as one INFO event.
// After flushing, the Recorder should not be reused.
func (r *Recorder) Flush() {
	if len(r.metrics) == 0 {
		return // Nothing to emit
	}

	evt := r.logger.Info().Str("namespace", r.namespace)

	if len(r.dimensions) > 0 {
		dims := zerolog.Dict()
		for _, k := range sortedKeys(r.dimensions) {
			dims = dims.Str(k, r.dimensions[k])
		}
		evt = evt.Dict("dimensions", dims)
	}

	values := zerolog.Dict()
	units := zerolog.Dict()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := r.metrics[name]
		values = values.Float64(name, m.value)
		units = units.Str(name, m.unit)
	}
	evt = evt.Dict("metrics", values).Dict("units", units)

	for k, v := range r.properties {
		evt = evt.Interface(k, v)
	}

	evt.Msg("metrics")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
