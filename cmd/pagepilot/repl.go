package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/entrhq/pagepilot/pkg/report"
	"github.com/entrhq/pagepilot/pkg/runner"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Execute instructions interactively against one session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			eng, err := newEngine(cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			fmt.Println("pagepilot interactive session")
			fmt.Println("One instruction per line. Type 'help' for the vocabulary, 'exit' to quit.")
			fmt.Println()

			homeDir, _ := os.UserHomeDir()
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "pagepilot> ",
				HistoryFile:     filepath.Join(homeDir, ".pagepilot", "history"),
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize readline: %w", err)
			}
			defer rl.Close()

			var results []runner.ExecutionResult
		loop:
			for {
				if ctx.Err() != nil {
					break
				}

				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					continue
				}
				if err == io.EOF {
					break
				}

				line = strings.TrimSpace(line)
				switch line {
				case "":
					continue
				case "exit", "quit":
					break loop
				case "help":
					printVocabulary(eng.runner)
					continue
				}

				res := eng.runner.RunOne(ctx, line)
				results = append(results, res)
				printResult(res)
			}

			if len(results) > 0 {
				fmt.Println()
				fmt.Print(report.Render(results))
			}
			return nil
		},
	}
}

func printResult(res runner.ExecutionResult) {
	if res.Success {
		if res.Result != "" && res.Result != "skipped" {
			fmt.Println(res.Result)
		} else {
			fmt.Println("ok")
		}
		return
	}
	fmt.Printf("error: %s\n", res.ErrorMessage)
}

func printVocabulary(r *runner.Runner) {
	for _, d := range r.Registry().Descriptors() {
		fmt.Printf("  %s\n", d.Usage)
	}
}
