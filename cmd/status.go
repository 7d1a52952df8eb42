package cmd

import (
	"fmt"

	"schema-sync/core/reconcile"
	"schema-sync/feature/catalog/models"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the last-sync timestamp and current in-sync state",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logg, db, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer logg.Sync()

		svc := reconcile.NewService(db, models.All(), logg)
		status, err := svc.Status(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("=== Schema Status ===")
		if status.LastSync != nil {
			fmt.Printf("Last Sync: %s\n", status.LastSync.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("Last Sync: never")
		}
		fmt.Printf("In Sync: %t\n", status.InSync)
		fmt.Printf("Total Differences: %d\n", status.TotalDifferences)
		fmt.Printf("Critical: %d, Warnings: %d, Info: %d\n",
			status.CriticalDifferences, status.Warnings, status.Info)

		if !status.InSync {
			return fmt.Errorf("schema is not in sync (%d critical differences)", status.CriticalDifferences)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
}
