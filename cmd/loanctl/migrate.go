package main

import (
	"github.com/segyhp/loan-ledger/internal/repository"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Create the settings, clients, loans and payments tables if they do not exist yet.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, logger, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("database schema applied")
			return nil
		},
	}
}
