package logging

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects session identity, configuration, capabilities and
// feature flags, then emits a single structured zerolog event summarising how
// the renderer was started. Useful when comparing a slow or failing session
// against a healthy one.
type StartupLogger struct {
	name         string
	version      string
	initDuration time.Duration

	paths        map[string]string
	capabilities map[string]bool
	features     map[string]bool
	config       map[string]string
}

// NewStartupLogger creates a StartupLogger for the named binary.
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:         name,
		paths:        make(map[string]string),
		capabilities: make(map[string]bool),
		features:     make(map[string]bool),
		config:       make(map[string]string),
	}
}

// Version sets the build version baked into the binary.
func (s *StartupLogger) Version(v string) *StartupLogger {
	s.version = v
	return s
}

// Path registers a filesystem location used by the session (image root, output, scratch).
func (s *StartupLogger) Path(label, path string) *StartupLogger {
	s.paths[label] = path
	return s
}

// Capability registers the outcome of a startup probe.
func (s *StartupLogger) Capability(name string, available bool) *StartupLogger {
	s.capabilities[name] = available
	return s
}

// Feature registers a boolean feature flag (e.g. "narration", "publish").
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration key-value pair.
// Never pass credentials here.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long session start-up (model load, probes) took.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// Log emits a single structured INFO event with all collected information.
func (s *StartupLogger) Log() {
	evt := log.Info()

	identity := zerolog.Dict().
		Str("name", s.name).
		Str("goVersion", runtime.Version()).
		Str("os", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Int("cpus", runtime.NumCPU())
	if s.version != "" {
		identity = identity.Str("version", s.version)
	}
	evt = evt.Dict("binary", identity)

	if len(s.paths) > 0 {
		evt = evt.Dict("paths", dictFromMap(s.paths))
	}
	if len(s.capabilities) > 0 {
		evt = evt.Dict("capabilities", dictFromBools(s.capabilities))
	}
	if len(s.features) > 0 {
		evt = evt.Dict("features", dictFromBools(s.features))
	}
	if len(s.config) > 0 {
		evt = evt.Dict("config", dictFromMap(s.config))
	}
	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}

	evt.Msg("Render session start-up complete")
}

// dictFromMap converts a map[string]string into a zerolog.Event (Dict).
func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}

func dictFromBools(m map[string]bool) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Bool(k, v)
	}
	return d
}
