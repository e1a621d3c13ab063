// Command pagepilot runs natural-language browser instruction scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/pagepilot/pkg/config"
)

const version = "0.1.0"

var (
	configFile string
	headful    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pagepilot",
		Short: "Scripted browser automation from plain-text instructions",
		Long: `pagepilot executes plain-text browser instructions against a real
browser. Each line is one instruction:

  go to https://example.com
  type searchBox, hello world
  click first result
  screenshot`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().BoolVar(&headful, "headful", false, "Run the browser with a visible window")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newActionsCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the pagepilot version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pagepilot v%s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration from file plus flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if headful {
		cfg.Browser.Headless = false
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM so an
// in-flight run can shut the browser down cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	return ctx, cancel
}
