package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entrhq/pagepilot/pkg/actions"
)

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the instruction vocabulary",
		Run: func(cmd *cobra.Command, args []string) {
			registry := actions.NewRegistry()
			for _, d := range registry.Descriptors() {
				fmt.Printf("  %-18s %s\n", strings.Join(d.Phrase, " "), d.Usage)
			}
		},
	}
}
