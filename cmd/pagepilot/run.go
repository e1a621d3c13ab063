package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/pagepilot/pkg/auth"
	"github.com/entrhq/pagepilot/pkg/config"
	"github.com/entrhq/pagepilot/pkg/driver"
	"github.com/entrhq/pagepilot/pkg/logging"
	"github.com/entrhq/pagepilot/pkg/report"
	"github.com/entrhq/pagepilot/pkg/resolve"
	"github.com/entrhq/pagepilot/pkg/runner"
	"github.com/entrhq/pagepilot/pkg/security/artifact"
)

// engine bundles the live session with the runner driving it.
type engine struct {
	session *driver.Session
	runner  *runner.Runner
	log     *logging.Logger
}

// newEngine launches a browser session and wires the runner stack.
func newEngine(cfg *config.Config) (*engine, error) {
	log, err := logging.NewLogger("pagepilot")
	if err != nil {
		// The fallback logger still works; note it and continue.
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", err)
	}

	session, err := driver.Launch(cfg.DriverOptions())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	guard, err := artifact.NewGuard(cfg.Artifacts.Dir)
	if err != nil {
		session.Close()
		log.Close()
		return nil, err
	}

	resolver := resolve.New(log, cfg.Timing.ProbeTimeout)
	authEngine := auth.NewEngine(resolver, log, cfg.Timing.OperationTimeout)

	opts := cfg.RunnerOptions()
	opts.Artifacts = guard

	return &engine{
		session: session,
		runner:  runner.New(session, resolver, authEngine, log, opts),
		log:     log,
	}, nil
}

func (e *engine) Close() {
	if err := e.session.Close(); err != nil {
		e.log.Warnf("browser close: %v", err)
	}
	e.log.Close()
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Execute an instruction script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readScript(args[0])
			if err != nil {
				return err
			}

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

			results := eng.runner.Run(ctx, lines)
			fmt.Print(report.Render(results))

			for _, res := range results {
				if !res.Success {
					return fmt.Errorf("script finished with failures")
				}
			}
			return nil
		},
	}
}

func readScript(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return lines, nil
}
