package cmd

import (
	"fmt"

	"relation-manager/core/storage"
	"relation-manager/feature/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var keepSnapshots int

// snapshotCmd is the parent command for snapshot operations.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export and restore relation rows through object storage",
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <relation>",
	Short: "Export every row of a relation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, a, err := snapshotService()
		if err != nil {
			return err
		}
		entry, err := svc.Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		a.logger.Info("Snapshot stored", zap.String("bucket", a.cfg.Storage.Bucket), zap.String("object", entry.Object))
		return printJSON(entry)
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list <relation>",
	Short: "List the stored snapshots of a relation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := snapshotService()
		if err != nil {
			return err
		}
		entries, err := svc.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <relation> <name>",
	Short: "Make a relation match a stored snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := snapshotService()
		if err != nil {
			return err
		}

		fmt.Printf("Restoring %s replaces every row of relation %s.\n", args[1], args[0])
		if !confirmDestructiveAction() {
			fmt.Println("Cancelled. No changes were made.")
			return nil
		}

		outcomes, err := svc.Restore(cmd.Context(), args[0], args[1])
		if perr := printJSON(outcomes); perr != nil {
			return perr
		}
		return err
	},
}

var snapshotPruneCmd = &cobra.Command{
	Use:   "prune <relation>",
	Short: "Remove all but the newest snapshots of a relation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, a, err := snapshotService()
		if err != nil {
			return err
		}
		keep := keepSnapshots
		if keep <= 0 {
			keep = a.cfg.Storage.Retention()
		}
		removed, err := svc.Prune(cmd.Context(), args[0], keep)
		if err != nil {
			return err
		}
		a.logger.Info("Snapshots pruned", zap.Int("removed", len(removed)), zap.Int("kept", keep))
		return nil
	},
}

func init() {
	snapshotRestoreCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the restore (non-interactive)")
	snapshotPruneCmd.Flags().IntVar(&keepSnapshots, "keep", 0, "Number of newest snapshots to keep (default storage.keep)")

	snapshotCmd.AddCommand(snapshotExportCmd, snapshotListCmd, snapshotRestoreCmd, snapshotPruneCmd)
	RootCmd.AddCommand(snapshotCmd)
}

func snapshotService() (*snapshot.Service, *app, error) {
	a, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	if err := a.connect(); err != nil {
		return nil, nil, err
	}
	if !a.cfg.Storage.Enabled {
		return nil, nil, fmt.Errorf("snapshot storage is disabled")
	}
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return snapshot.NewService(client, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.registry, a.logger), a, nil
}
