package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/vetclinic-service/internal/service"
)

// NewCreateVetCmd creates the create-vet subcommand used to bootstrap accounts.
func NewCreateVetCmd() *cobra.Command {
	var in service.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-vet",
		Short: "Register a vet account",
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
			vet, err := authService.Register(ctx, in)
			if err != nil {
				return err
			}
			cmd.Printf("Vet registered: id=%s email=%s\n", vet.ID, vet.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.CRMV, "crmv", "", "professional registration number")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	for _, flag := range []string{"name", "crmv", "email", "password"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}
