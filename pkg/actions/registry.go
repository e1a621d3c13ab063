// Package actions defines the instruction vocabulary: the closed set of
// action descriptors and the handlers that perform them against the
// browser driver.
package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/pagepilot/pkg/auth"
	"github.com/entrhq/pagepilot/pkg/driver"
	"github.com/entrhq/pagepilot/pkg/logging"
	"github.com/entrhq/pagepilot/pkg/resolve"
	"github.com/entrhq/pagepilot/pkg/security/artifact"
)

// Env carries the collaborators a handler acts through. Page is the
// active page at dispatch time; the runner rebinds it per instruction.
type Env struct {
	Browser  driver.Browser
	Page     driver.Page
	Resolver *resolve.Resolver
	Auth     *auth.Engine
	Log      *logging.Logger

	// Artifacts confines script-named output paths when set.
	Artifacts *artifact.Guard

	// Timeout bounds individual page operations.
	Timeout time.Duration
}

// Handler performs one action and returns a human-readable payload.
type Handler func(ctx context.Context, env *Env, params []string) (string, error)

// Descriptor declares one action: the literal keyword phrase that must
// prefix-match an instruction, the minimum parameter contract, a usage
// hint surfaced verbatim in parse failures, and the handler.
type Descriptor struct {
	// Key is the action's unique identifier.
	Key string

	// Phrase is the ordered token sequence matched case-insensitively
	// against the start of an instruction line.
	Phrase []string

	// MinParams is the minimum number of parameters the handler needs.
	MinParams int

	// Usage is the human-readable argument hint.
	Usage string

	// OpensNewPage marks actions after which the runner waits a settle
	// interval so a new-tab notification can land before the next
	// instruction reads the active page.
	OpensNewPage bool

	// FoldTail folds unquoted surplus comma segments into the final
	// parameter, so free text containing commas needs no quoting.
	FoldTail bool

	Handler Handler
}

// Registry is the closed, statically known action vocabulary for one
// run. Registration happens once at construction; registration order is
// part of the parsing contract when keyword phrases overlap.
type Registry struct {
	ordered []*Descriptor
	byKey   map[string]*Descriptor
}

// NewRegistry builds the full built-in vocabulary.
func NewRegistry() *Registry {
	r := &Registry{byKey: make(map[string]*Descriptor)}

	for _, d := range builtins() {
		if err := r.register(d); err != nil {
			// Duplicate keys in the builtin table are a programming
			// error, not a runtime condition.
			panic(err)
		}
	}
	return r
}

func (r *Registry) register(d *Descriptor) error {
	if d.Key == "" || len(d.Phrase) == 0 {
		return fmt.Errorf("descriptor needs a key and a keyword phrase")
	}
	if _, exists := r.byKey[d.Key]; exists {
		return fmt.Errorf("action %q already registered", d.Key)
	}
	r.ordered = append(r.ordered, d)
	r.byKey[d.Key] = d
	return nil
}

// Lookup returns the descriptor for an action key.
func (r *Registry) Lookup(key string) (*Descriptor, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// Descriptors returns all descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	return r.ordered
}

// builtins returns the vocabulary in registration order.
func builtins() []*Descriptor {
	return []*Descriptor{
		{
			Key:       "goto",
			Phrase:    []string{"go", "to"},
			MinParams: 1,
			Usage:     "go to <url>",
			Handler:   handleGoto,
		},
		{
			Key:          "click",
			Phrase:       []string{"click"},
			MinParams:    1,
			Usage:        "click <target>",
			OpensNewPage: true,
			Handler:      handleClick,
		},
		{
			Key:       "type",
			Phrase:    []string{"type"},
			MinParams: 2,
			Usage:     "type <target>, <text>",
			FoldTail:  true,
			Handler:   handleType,
		},
		{
			Key:       "fill",
			Phrase:    []string{"fill"},
			MinParams: 2,
			Usage:     "fill <target>, <text>",
			FoldTail:  true,
			Handler:   handleFill,
		},
		{
			Key:       "press",
			Phrase:    []string{"press"},
			MinParams: 1,
			Usage:     "press <key>",
			Handler:   handlePress,
		},
		{
			Key:       "focus",
			Phrase:    []string{"focus"},
			MinParams: 1,
			Usage:     "focus <target>",
			Handler:   handleFocus,
		},
		// "wait for" must outrank the bare "wait" prefix; the parser
		// breaks phrase ties toward the longer match, and keeping the
		// longer phrase first makes the intent explicit here too.
		{
			Key:       "waitfor",
			Phrase:    []string{"wait", "for"},
			MinParams: 1,
			Usage:     "wait for <target>",
			Handler:   handleWaitFor,
		},
		{
			Key:       "wait",
			Phrase:    []string{"wait"},
			MinParams: 1,
			Usage:     "wait <seconds>",
			Handler:   handleWait,
		},
		{
			Key:       "screenshot",
			Phrase:    []string{"screenshot"},
			MinParams: 0,
			Usage:     "screenshot [path]",
			Handler:   handleScreenshot,
		},
		{
			Key:       "text",
			Phrase:    []string{"extract", "text"},
			MinParams: 0,
			Usage:     "extract text [target]",
			Handler:   handleExtractText,
		},
		{
			Key:       "html",
			Phrase:    []string{"extract", "html"},
			MinParams: 0,
			Usage:     "extract html [selector]",
			Handler:   handleExtractHTML,
		},
		{
			Key:       "links",
			Phrase:    []string{"extract", "links"},
			MinParams: 0,
			Usage:     "extract links",
			Handler:   handleExtractLinks,
		},
		{
			Key:       "eval",
			Phrase:    []string{"eval"},
			MinParams: 1,
			Usage:     "eval <script>",
			Handler:   handleEval,
		},
		{
			Key:       "drag",
			Phrase:    []string{"drag"},
			MinParams: 2,
			Usage:     "drag <source>, <destination>",
			Handler:   handleDrag,
		},
		{
			Key:       "scroll",
			Phrase:    []string{"scroll"},
			MinParams: 1,
			Usage:     "scroll <down|up|top|bottom|pixels>",
			Handler:   handleScroll,
		},
		{
			Key:       "savecookies",
			Phrase:    []string{"save", "cookies"},
			MinParams: 1,
			Usage:     "save cookies <path>",
			Handler:   handleSaveCookies,
		},
		{
			Key:       "loadcookies",
			Phrase:    []string{"load", "cookies"},
			MinParams: 1,
			Usage:     "load cookies <path>",
			Handler:   handleLoadCookies,
		},
		{
			Key:          "login",
			Phrase:       []string{"login"},
			MinParams:    2,
			Usage:        "login <username>, <password>",
			OpensNewPage: true,
			Handler:      handleLogin,
		},
		{
			Key:          "signup",
			Phrase:       []string{"signup"},
			MinParams:    2,
			Usage:        "signup <username>, <password>[, full name]",
			OpensNewPage: true,
			Handler:      handleSignup,
		},
		{
			Key:          "auth",
			Phrase:       []string{"authenticate"},
			MinParams:    2,
			Usage:        "authenticate <username>, <password>",
			OpensNewPage: true,
			Handler:      handleAuthenticate,
		},
	}
}
