package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/pagepilot/pkg/runner"
)

func TestRenderCountsOutcomes(t *testing.T) {
	out := Render([]runner.ExecutionResult{
		{Instruction: "go to https://example.com", Success: true, Duration: 120 * time.Millisecond},
		{Instruction: "click missing", ErrorMessage: "could not resolve target", Duration: 2 * time.Second},
		{Instruction: "extract text", Success: true, Result: "hello world"},
	})

	assert.Contains(t, out, "2 passed, 1 failed of 3")
	assert.Contains(t, out, "could not resolve target")
	assert.Contains(t, out, "hello world")
}

func TestRenderNumbersEveryLine(t *testing.T) {
	out := Render([]runner.ExecutionResult{
		{Instruction: "screenshot", Success: true},
		{Instruction: "# checkpoint", Success: true, Result: "skipped"},
	})

	assert.Contains(t, out, "  1")
	assert.Contains(t, out, "  2")
	// Skip markers carry no payload line.
	assert.NotContains(t, out, "skipped")
}

func TestInlineResultTruncatesAndFlattens(t *testing.T) {
	long := strings.Repeat("word ", 100)
	flat := inlineResult(long)
	assert.True(t, strings.HasSuffix(flat, "..."))
	assert.NotContains(t, flat, "\n")

	multi := inlineResult("line one\nline two")
	assert.Equal(t, "line one line two", multi)
}
