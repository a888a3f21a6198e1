package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the vetclinic CLI. Running it without a subcommand starts the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vetclinic",
		Short: "Veterinary clinic API",
		Long: `vetclinic serves the clinic REST API and bundles the operator
tasks around it: schema migrations, account bootstrap and session cleanup.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateVetCmd())
	cmd.AddCommand(NewSessionsCmd())

	return cmd
}
