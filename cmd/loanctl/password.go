package main

import (
	"errors"

	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/service"

	"github.com/spf13/cobra"
)

func initPasswordCmd() *cobra.Command {
	var (
		password string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init-password",
		Short: "Seed or reset the shared access password",
		Long: `Store the bcrypt hash of the shared access password.

Without --force an existing password is kept. Without --password the
configured AUTH_DEFAULT_PASSWORD is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, logger, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if password == "" {
				password = cfg.Auth.DefaultPassword
			}

			authService := service.NewAuthService(
				repository.NewSettingRepository(db), nil,
				cfg.OwnerID(), cfg.Auth.OwnerName, password, cfg.Auth.SessionTTL,
				logger,
			)

			if force {
				if err := authService.SetPassword(cmd.Context(), password); err != nil {
					return err
				}
				logger.Info("access password reset")
				return nil
			}

			seeded, err := authService.EnsurePassword(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				return errors.New("a password is already set, rerun with --force to overwrite it")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password to store (default AUTH_DEFAULT_PASSWORD)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing password")

	return cmd
}
