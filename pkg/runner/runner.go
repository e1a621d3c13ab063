// Package runner executes instruction sequences line by line against a
// live browser session, isolating per-instruction failures.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/pagepilot/pkg/actions"
	"github.com/entrhq/pagepilot/pkg/auth"
	"github.com/entrhq/pagepilot/pkg/driver"
	"github.com/entrhq/pagepilot/pkg/logging"
	"github.com/entrhq/pagepilot/pkg/parse"
	"github.com/entrhq/pagepilot/pkg/resolve"
	"github.com/entrhq/pagepilot/pkg/security/artifact"
)

// DefaultSettleInterval is how long the runner pauses after an action
// that may open a new page, so the new-tab notification can land before
// the next instruction reads the active page.
const DefaultSettleInterval = 500 * time.Millisecond

// ExecutionResult records the outcome of one instruction line. A batch
// run produces exactly one result per input line, in input order.
type ExecutionResult struct {
	Instruction  string
	Success      bool
	Result       string
	ErrorMessage string

	// Duration covers parse plus execution for this line.
	Duration time.Duration
}

// Options tune a Runner. Zero values fall back to defaults.
type Options struct {
	// SettleInterval overrides DefaultSettleInterval.
	SettleInterval time.Duration

	// Timeout bounds individual page operations inside handlers.
	Timeout time.Duration

	// Artifacts confines script-named output paths when set.
	Artifacts *artifact.Guard
}

// Runner drives a parsed instruction stream through the action
// registry. One Runner owns one browser session for its lifetime.
type Runner struct {
	registry  *actions.Registry
	parser    *parse.Parser
	browser   driver.Browser
	resolver  *resolve.Resolver
	auth      *auth.Engine
	log       *logging.Logger
	settle    time.Duration
	timeout   time.Duration
	artifacts *artifact.Guard
}

func New(browser driver.Browser, resolver *resolve.Resolver, authEngine *auth.Engine, log *logging.Logger, opts Options) *Runner {
	registry := actions.NewRegistry()

	settle := opts.SettleInterval
	if settle <= 0 {
		settle = DefaultSettleInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = driver.DefaultTimeout
	}

	return &Runner{
		registry:  registry,
		parser:    parse.New(registry),
		browser:   browser,
		resolver:  resolver,
		auth:      authEngine,
		log:       log,
		settle:    settle,
		timeout:   timeout,
		artifacts: opts.Artifacts,
	}
}

// Registry exposes the vocabulary, for listing available actions.
func (r *Runner) Registry() *actions.Registry {
	return r.registry
}

// Run executes every line in order and never stops early on a failed
// instruction. Cancellation is the exception: once ctx is done the
// remaining lines are recorded as cancelled without executing.
func (r *Runner) Run(ctx context.Context, lines []string) []ExecutionResult {
	results := make([]ExecutionResult, 0, len(lines))
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			results = append(results, ExecutionResult{
				Instruction:  line,
				ErrorMessage: fmt.Sprintf("run cancelled: %v", err),
			})
			continue
		}
		results = append(results, r.RunOne(ctx, line))
	}
	return results
}

// RunOne parses and executes a single instruction line.
func (r *Runner) RunOne(ctx context.Context, line string) ExecutionResult {
	start := time.Now()
	result := r.execute(ctx, line)
	result.Instruction = line
	result.Duration = time.Since(start)

	if result.Success {
		r.log.Infof("instruction ok: %s", line)
	} else {
		r.log.Warnf("instruction failed: %s: %s", line, result.ErrorMessage)
	}
	return result
}

func (r *Runner) execute(ctx context.Context, line string) ExecutionResult {
	action, failure := r.parser.Parse(line)
	if failure != nil {
		return ExecutionResult{ErrorMessage: failure.Reason}
	}
	if action.Skip {
		return ExecutionResult{Success: true, Result: "skipped"}
	}

	// Re-sync the active page before dispatch in case a tab opened or
	// closed outside our notifications since the last instruction.
	page := r.browser.Reconcile()

	env := &actions.Env{
		Browser:   r.browser,
		Page:      page,
		Resolver:  r.resolver,
		Auth:      r.auth,
		Log:       r.log,
		Artifacts: r.artifacts,
		Timeout:   r.timeout,
	}
	if env.Page == nil {
		return ExecutionResult{ErrorMessage: "no active page"}
	}

	output, err := r.dispatch(ctx, action, env)
	if err != nil {
		return ExecutionResult{ErrorMessage: err.Error()}
	}

	if action.Descriptor.OpensNewPage {
		r.pause(ctx)
	}
	return ExecutionResult{Success: true, Result: output}
}

// dispatch invokes the handler, converting a panic into a failed
// result so one bad instruction cannot take down the batch.
func (r *Runner) dispatch(ctx context.Context, action *parse.Action, env *actions.Env) (output string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("action %s panicked: %v", action.Key, rec)
		}
	}()
	return action.Descriptor.Handler(ctx, env, action.Params)
}

func (r *Runner) pause(ctx context.Context) {
	select {
	case <-time.After(r.settle):
	case <-ctx.Done():
	}
}
