package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-chatsync/internal/repository"
)

// NewMigrateCommand creates or updates the database schema and exits.
func NewMigrateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}

			db, err := repository.Open(cfg.DatabasePath, false)
			if err != nil {
				return err
			}
			defer repository.Close(db)

			if err := repository.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", cfg.DatabasePath)
			return nil
		},
	}
}
