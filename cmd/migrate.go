package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SalonScheduling/migrations"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/txmanager"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, cleanup, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Applied %d migration(s)\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, cleanup, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			version, err := migrator.Down(cmd.Context())
			if err != nil {
				return err
			}
			if version == "" {
				cmd.Println("Nothing to roll back")
				return nil
			}
			cmd.Printf("Rolled back %s\n", version)
			return nil
		},
	})

	return cmd
}

func newMigrator(cmd *cobra.Command) (*migrations.Migrator, func(), error) {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return nil, nil, err
	}

	db, err := openDB(cfg.Database, log)
	if err != nil {
		log.Close()
		return nil, nil, err
	}

	wrapped := dbmetrics.Wrap(db, nil)
	cleanup := func() {
		_ = db.Close()
		log.Close()
	}

	return migrations.New(wrapped, txmanager.NewTransactionManager(wrapped), log), cleanup, nil
}
