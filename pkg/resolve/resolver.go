// Package resolve turns an ordered candidate selector list into the
// first concrete selector that currently exists and is visible on the
// page.
package resolve

import (
	"context"
	"time"

	"github.com/entrhq/pagepilot/pkg/logging"
	"github.com/entrhq/pagepilot/pkg/selector"
)

// Prober is the read-only page surface the resolver needs from the
// browser driver. Probing never mutates the page.
type Prober interface {
	// Exists reports whether the selector matches any attached element
	// within the timeout.
	Exists(selector string, timeout time.Duration) (bool, error)

	// Visible reports whether the first match is currently rendered.
	Visible(selector string) (bool, error)
}

// Resolver probes candidates in priority order against a live page.
type Resolver struct {
	probeTimeout time.Duration
	log          *logging.Logger
}

// DefaultProbeTimeout bounds each candidate probe so trying a full
// candidate list stays within a few seconds total.
const DefaultProbeTimeout = 400 * time.Millisecond

// New creates a resolver. A zero probeTimeout selects the default.
func New(log *logging.Logger, probeTimeout time.Duration) *Resolver {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Resolver{probeTimeout: probeTimeout, log: log}
}

// Resolve returns the first candidate that is both present and visible,
// or ok=false when no candidate succeeds. Candidates are probed
// strictly in order: a later candidate is never preferred over an
// earlier one that also resolves. A candidate that exists but is
// hidden is logged and skipped, which distinguishes "wrong selector"
// from "right selector, currently hidden" in the run log.
func (r *Resolver) Resolve(ctx context.Context, probe Prober, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return "", false
		}
		if candidate == "" {
			continue
		}

		exists, err := probe.Exists(candidate, r.probeTimeout)
		if err != nil {
			r.debugf("probe error for %q: %v", candidate, err)
			continue
		}
		if !exists {
			continue
		}

		visible, err := probe.Visible(candidate)
		if err != nil {
			r.debugf("visibility check error for %q: %v", candidate, err)
			continue
		}
		if !visible {
			r.debugf("found but not visible: %s", candidate)
			continue
		}

		return candidate, true
	}
	return "", false
}

// ResolveTarget generates candidates for a target description and
// resolves them. This is the common path for action handlers, which
// receive human-friendly targets rather than selector lists.
func (r *Resolver) ResolveTarget(ctx context.Context, probe Prober, target string) (string, bool) {
	return r.Resolve(ctx, probe, selector.Generate(target))
}

func (r *Resolver) debugf(format string, v ...interface{}) {
	if r.log != nil {
		r.log.Debugf(format, v...)
	}
}
