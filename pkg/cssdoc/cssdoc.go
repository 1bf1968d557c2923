// Package cssdoc is the embeddable public API: Process parses, refines,
// plugin-processes, and (via Write) serializes a CSS source string,
// wrapping the internal pipeline (internal/rawparser, internal/refine,
// internal/plugin, internal/prefixer, internal/writer) the way esbuild's
// pkg/api wraps its own internal bundler behind a small, stable surface.
package cssdoc

import (
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/config"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/internal/plugin"
	"github.com/cssdoc/cssdoc/internal/prefixer"
	"github.com/cssdoc/cssdoc/internal/rawparser"
	"github.com/cssdoc/cssdoc/internal/refine"
	"github.com/cssdoc/cssdoc/internal/writer"
)

// Options, PrefixOptions, and ErrorPolicy are re-exported from
// internal/config so a caller never needs to import an internal package to
// configure Process.
type (
	Options       = config.Options
	PrefixOptions = config.PrefixOptions
	ErrorPolicy   = config.ErrorPolicy
)

const (
	ErrorPolicyThrow   = config.ErrorPolicyThrow
	ErrorPolicyCollect = config.ErrorPolicyCollect
)

// Mode is the writer output style, re-exported from internal/writer.
type Mode = writer.Mode

const (
	Verbose    = writer.Verbose
	Inline     = writer.Inline
	Compressed = writer.Compressed
)

// ErrProcessing is the go-errors.v1 kind every error Process returns
// belongs to, letting a caller do `ErrProcessing.Is(err)` rather than
// string-matching.
var ErrProcessing = goerrors.NewKind("cssdoc: %s")

// Process parses source, runs it through the refinement/plugin pipeline
// configured by opts, and returns the resulting Stylesheet plus every
// diagnostic collected along the way. Under ErrorPolicyThrow the returned
// error is non-nil as soon as a non-advisory diagnostic is raised, and the
// Stylesheet reflects whatever was built before that point; under
// ErrorPolicyCollect diagnostics never produce an error and the caller
// inspects the returned messages itself. Under either policy, a plugin
// Handler that returns an error stops processing and Process returns that
// error.
func Process(source string, opts Options) (*cssast.Stylesheet, []logger.Msg, error) {
	log := logger.NewLog(opts.ErrorPolicy.ToLoggerPolicy())
	b := bus.New()
	reg := refine.NewStandardRegistry()
	sched := plugin.NewScheduler(b, log, reg)

	if opts.Prefix != nil {
		prefixPlugin := prefixer.New(prefixer.Options{
			Constraints: opts.Prefix.Constraints,
			Prune:       opts.Prefix.Prune,
		})
		if err := sched.Register(prefixPlugin); err != nil {
			return nil, log.Msgs(), ErrProcessing.Wrap(err, "registering vendor-prefix plugin")
		}
	}
	for _, p := range opts.Plugins {
		if err := sched.Register(p); err != nil {
			return nil, log.Msgs(), ErrProcessing.Wrap(err, "registering plugin "+p.Kind())
		}
	}
	b.Chain(sched)

	sched.RunBeforePreProcess()
	p := rawparser.New(source, log, b)
	ss, err := p.ParseStylesheet()
	if err != nil {
		return ss, log.Msgs(), ErrProcessing.Wrap(err, "parsing stylesheet")
	}

	b.PropagateBroadcast(ss)
	if err := sched.Err(); err != nil {
		return ss, log.Msgs(), ErrProcessing.Wrap(err, "processing stylesheet")
	}
	sched.RunAfterPreProcess()

	return ss, log.Msgs(), nil
}

// Write serializes ss in the given Mode, a thin pass-through to
// internal/writer kept here so a caller that only imports pkg/cssdoc never
// needs internal/writer directly.
func Write(ss *cssast.Stylesheet, mode Mode) string {
	return writer.WriteStylesheet(ss, mode)
}
