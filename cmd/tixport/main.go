package main

import (
	"os"

	"github.com/spf13/cobra"

	"tixport/internal/interfaces/cli/migrate"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tixport",
		Short: "Tixport - helpdesk to issue tracker migration",
		Long:  `Tixport migrates helpdesk tickets into an issue tracker: issues, comments, attachments, priorities, and workflow state, idempotently per ticket.`,
	}

	rootCmd.AddCommand(
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
