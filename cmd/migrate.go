package cmd

import (
	"fmt"

	"relation-manager/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dropTables bool

// migrateCmd creates the link tables of every declared relation.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the link tables of the declared relations",
	Long: `Creates one link table per entry of relations.definitions: an id column, the two key
columns and a unique index over both keys. Existing tables are kept and only verified.

Examples:
  # Create missing tables
  migrate

  # Drop and recreate every declared table
  migrate --drop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		db, err := database.Connect(a.cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if len(a.cfg.Relations.Definitions) == 0 {
			a.logger.Warn("No relations declared, nothing to migrate")
			return nil
		}

		for _, decl := range a.cfg.Relations.Definitions {
			table := decl.LinkTable()
			l := a.logger.With(zap.String("relation", decl.Name), zap.String("table", table.Table))

			if dropTables {
				if err := database.DropLinkTable(db, table); err != nil {
					return err
				}
				l.Info("Link table dropped")
			}

			if err := database.CreateLinkTable(db, table); err != nil {
				return err
			}

			missing, err := database.VerifyLinkTable(db, table)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("link table %s is missing columns %v", table.Table, missing)
			}
			l.Info("Link table ready", zap.String("index", table.IndexName()))
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&dropTables, "drop", false, "Drop the declared tables before creating them")
	RootCmd.AddCommand(migrateCmd)
}
