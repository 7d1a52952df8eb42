package cmd

import (
	"fmt"

	"schema-sync/core/storage"
	"schema-sync/feature/backup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backupName string

// backupCmd represents the backup command group. All operations delegate to
// the external backup artifact store; this tool never creates backups.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage schema backup artifacts",
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, _, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer logg.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		svc := backup.NewService(client, cfg.Storage.Bucket, nil, logg)
		backups, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(backups) == 0 {
			fmt.Println("No backups found.")
			return nil
		}
		fmt.Println("=== Backups ===")
		for _, b := range backups {
			fmt.Printf("%s  %10d bytes  %s\n", b.LastModified.Format("2006-01-02 15:04:05"), b.Size, b.Name)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a backup into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if backupName == "" {
			return fmt.Errorf("--name is required")
		}

		cfg, logg, db, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer logg.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		svc := backup.NewService(client, cfg.Storage.Bucket, db, logg)
		if err := svc.Restore(cmd.Context(), backupName); err != nil {
			return err
		}
		logg.Info("Backup restored", zap.String("name", backupName))
		return nil
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a backup artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		if backupName == "" {
			return fmt.Errorf("--name is required")
		}

		cfg, logg, _, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer logg.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		svc := backup.NewService(client, cfg.Storage.Bucket, nil, logg)
		return svc.Delete(cmd.Context(), backupName)
	},
}

func init() {
	RootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd, backupRestoreCmd, backupDeleteCmd)

	backupCmd.PersistentFlags().StringVar(&backupName, "name", "", "Backup name")
}
