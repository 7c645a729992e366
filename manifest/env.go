package manifest

import (
	"github.com/xyproto/env/v2"
)

// Environment variables that override golf.toml.
const (
	EnvThreshold = "GOLF_THRESHOLD"
	EnvAdaptive  = "GOLF_ADAPTIVE"
	EnvRational  = "GOLF_RATIONAL"
	EnvLogLevel  = "GOLF_LOG_LEVEL"
	EnvHistory   = "GOLF_HISTORY"
)

// ApplyEnv overrides settings from the environment. Unset variables
// leave the current values alone.
func (m *Manifest) ApplyEnv() {
	if env.Has(EnvThreshold) {
		m.Adaptive.Threshold = env.Int(EnvThreshold, m.Adaptive.Threshold)
	}
	if env.Has(EnvAdaptive) {
		m.Adaptive.Enabled = env.Bool(EnvAdaptive)
	}
	if env.Has(EnvRational) {
		m.Run.Rational = env.Bool(EnvRational)
	}
	m.Log.Level = env.Str(EnvLogLevel, m.Log.Level)
	m.History.Path = env.Str(EnvHistory, m.History.Path)
}
