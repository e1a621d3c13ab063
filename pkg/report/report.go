// Package report renders instruction run results for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/pagepilot/pkg/runner"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

const maxInlineResult = 200

// Render formats one line per executed instruction followed by a
// summary box. Output goes to stdout; it is presentation only and
// carries no information the results slice does not.
func Render(results []runner.ExecutionResult) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Instruction run"))
	b.WriteString("\n\n")

	var passed, failed int
	var total time.Duration

	for i, res := range results {
		total += res.Duration

		marker := okStyle.Render("ok  ")
		if !res.Success {
			marker = failStyle.Render("fail")
		}

		b.WriteString(fmt.Sprintf("%3d  %s  %s", i+1, marker, res.Instruction))
		b.WriteString("\n")

		if res.Success {
			passed++
			if out := inlineResult(res.Result); out != "" {
				b.WriteString(dimStyle.Render("        " + out))
				b.WriteString("\n")
			}
		} else {
			failed++
			b.WriteString(failStyle.Render("        " + res.ErrorMessage))
			b.WriteString("\n")
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed of %d in %s",
		passed, failed, len(results), total.Round(time.Millisecond))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(summary))
	b.WriteString("\n")

	return b.String()
}

// inlineResult compresses a handler payload to a single short line so
// extracted page text does not flood the report. Full payloads are in
// the run log.
func inlineResult(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "skipped" {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxInlineResult {
		s = s[:maxInlineResult] + "..."
	}
	return s
}
