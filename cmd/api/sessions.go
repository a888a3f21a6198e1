package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/vetclinic-service/internal/service"
)

// NewSessionsCmd creates the sessions subcommand.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and maintain refresh token sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired refresh tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			st, err := openStores(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			authService := service.NewAuthService(*cfg, service.AuthDependencies{
				VetRepo:          st.vets,
				RefreshTokenRepo: st.sessions,
				Logger:           logger,
			})
			n, err := authService.PruneExpiredSessions(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("Pruned %d expired sessions\n", n)
			return nil
		},
	})
	return cmd
}
