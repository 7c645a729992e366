package main

import (
	"io"

	"github.com/tliron/commonlog"

	"github.com/chazu/golfvm/interp"
	"github.com/chazu/golfvm/manifest"
)

// applyFlags overrides the loaded configuration with flags given on the
// command line.
func applyFlags(cfg *manifest.Manifest, f *cliFlags) {
	if f.set["q"] {
		cfg.Run.Quiet = f.quiet
	}
	if f.set["r"] {
		cfg.Run.Rational = f.rational
	}
	if f.set["seed"] {
		seed := f.seed
		cfg.Run.Seed = &seed
	}
	if f.set["interpreted"] {
		cfg.Adaptive.Enabled = !f.interpreted
	}
	if f.set["threshold"] && f.threshold > 0 {
		cfg.Adaptive.Threshold = f.threshold
	}
	if f.set["log-compilation"] {
		cfg.Adaptive.LogCompilation = f.logCompilation
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
}

// verbosity maps a configured level name to commonlog verbosity.
var verbosity = map[string]int{
	"none":     -4,
	"critical": -3,
	"error":    -2,
	"warning":  -1,
	"notice":   0,
	"info":     1,
	"debug":    2,
}

func configureLogging(cfg *manifest.Manifest) {
	v, ok := verbosity[cfg.Log.Level]
	if !ok {
		v = verbosity["warning"]
	}
	if cfg.Log.File != "" {
		path := cfg.Log.File
		commonlog.Configure(v, &path)
		return
	}
	commonlog.Configure(v, nil)
}

func interpOptions(cfg *manifest.Manifest, stdout, stderr io.Writer) interp.Options {
	return interp.Options{
		Rational:       cfg.Run.Rational,
		Quiet:          cfg.Run.Quiet,
		Interpreted:    !cfg.Adaptive.Enabled,
		Threshold:      cfg.Adaptive.Threshold,
		Seed:           cfg.Run.Seed,
		LogCompilation: cfg.Adaptive.LogCompilation,
		Stdout:         stdout,
		Stderr:         stderr,
	}
}
