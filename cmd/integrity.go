package cmd

import (
	"fmt"
	"time"

	"relation-manager/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the declared relations",
	Long:  `Checks the link table schemas and looks for association rows whose owner entity no longer exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSchemaCheck(); err != nil {
			return err
		}
		return runOrphanCheck(cmd, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the link table columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchemaCheck()
	},
}

// orphansCmd represents the integrity orphans command
var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Count and optionally delete orphaned association rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrphanCheck(cmd, fixFlag)
	},
}

func init() {
	orphansCmd.Flags().BoolVar(&fixFlag, "fix", false, "Delete orphaned rows")
	orphansCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the deletion (non-interactive)")

	integrityCmd.AddCommand(schemaCmd, orphansCmd)
	RootCmd.AddCommand(integrityCmd)
}

func integrityService() (*integrity.Service, *app, error) {
	a, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	if err := a.connect(); err != nil {
		return nil, nil, err
	}
	return integrity.NewService(nil, "", a.logger, a.db, a.registry), a, nil
}

func runSchemaCheck() error {
	svc, a, err := integrityService()
	if err != nil {
		return err
	}

	report, err := svc.CheckSchema()
	if err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}

	fmt.Println("\n=== Link Table Schema ===")
	for table, tbl := range report.Tables {
		fmt.Printf("%s (%s): %s\n", table, tbl.Relation, tbl.Status)
		for _, col := range tbl.MissingColumns {
			fmt.Printf("  missing column: %s\n", col)
		}
		for _, mismatch := range tbl.TypeMismatches {
			fmt.Printf("  type mismatch: %s\n", mismatch)
		}
	}
	for _, e := range report.Errors {
		fmt.Printf("error: %s\n", e)
	}

	a.logger.Info("Schema check completed", zap.Bool("matched", report.Matched), zap.Int("tables", len(report.Tables)))
	if !report.Matched {
		return fmt.Errorf("link table schema mismatch, run migrate to create missing tables")
	}
	return nil
}

func runOrphanCheck(cmd *cobra.Command, fix bool) error {
	svc, a, err := integrityService()
	if err != nil {
		return err
	}
	startTime := time.Now()

	if fix && !confirmDestructiveAction() {
		a.logger.Warn("Operation cancelled by user. No changes were made.")
		fix = false
	}

	orphans, removed, err := svc.CheckOrphans(cmd.Context(), fix)
	if err != nil {
		return fmt.Errorf("orphan check failed: %w", err)
	}

	fmt.Println("\n=== Orphaned Association Rows ===")
	for _, o := range orphans {
		fmt.Printf("%s.%s -> %s: %d\n", o.Relation, o.Column, o.Owner, o.Count)
	}
	if fix {
		fmt.Printf("Removed: %d\n", removed)
	}
	fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())
	return nil
}
