// Package config holds Options: the single plain struct pkg/cssdoc.Process
// threads down into the rawparser/refine/plugin/writer pipeline, grounded
// on the teacher's internal/config.Options convention — documented public
// fields, no framework, no builder.
package config

import (
	"github.com/cssdoc/cssdoc/internal/compat"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/internal/plugin"
	"github.com/cssdoc/cssdoc/internal/writer"
)

// ErrorPolicy selects how a Process() call reacts to a diagnostic,
// mirroring logger.Policy one-for-one so callers of pkg/cssdoc don't need
// to import internal/logger themselves.
type ErrorPolicy uint8

const (
	// ErrorPolicyThrow aborts at the first non-advisory diagnostic.
	ErrorPolicyThrow ErrorPolicy = iota
	// ErrorPolicyCollect accumulates every diagnostic and returns them
	// alongside the stylesheet, however far processing got.
	ErrorPolicyCollect
)

func (p ErrorPolicy) toLoggerPolicy() logger.Policy {
	if p == ErrorPolicyCollect {
		return logger.PolicyCollect
	}
	return logger.PolicyThrow
}

// ToLoggerPolicy exposes the internal/logger.Policy this ErrorPolicy maps
// to, for pkg/cssdoc to construct its Log with.
func (p ErrorPolicy) ToLoggerPolicy() logger.Policy { return p.toLoggerPolicy() }

// PrefixOptions configures the vendor-prefix plugin when Options.Prefix is
// non-nil. A nil Options.Prefix disables the plugin entirely: no browsers
// are mirrored or pruned.
type PrefixOptions struct {
	// Constraints is the caller's support matrix: the lowest version of
	// each named engine the output must still support. A version omits
	// trailing components the same way internal/compat.Version.compareTo
	// tolerates ("Chrome 90" as []int{90}, not {90, 0, 0}).
	Constraints map[compat.Engine][]int
	// Prune removes an already-prefixed selector once every constrained
	// engine has dropped the need for that prefix.
	Prune bool
}

// Options is the full configuration surface for one Process() call.
type Options struct {
	// Mode selects the writer's output style.
	Mode writer.Mode

	// Prefix enables and configures the vendor-prefix plugin. Leave nil to
	// skip prefixing entirely.
	Prefix *PrefixOptions

	// Plugins are registered on the Scheduler after the prefix plugin (if
	// enabled), in the order given.
	Plugins []plugin.Plugin

	// ErrorPolicy controls whether a non-advisory diagnostic aborts
	// Process() immediately or is collected for the caller to inspect.
	ErrorPolicy ErrorPolicy
}
