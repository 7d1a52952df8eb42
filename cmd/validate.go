package cmd

import (
	"fmt"

	"schema-sync/core/reconcile"
	"schema-sync/feature/catalog/models"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the schema for drift without fixing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logg, db, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer logg.Sync()

		svc := reconcile.NewService(db, models.All(), logg)
		diffs, err := svc.Validate(cmd.Context())
		if err != nil {
			return err
		}

		printDifferences(diffs)

		critical := 0
		for _, d := range diffs {
			if d.Severity == reconcile.SeverityError {
				critical++
			}
		}
		if critical > 0 {
			return fmt.Errorf("schema is invalid: %d critical difference(s)", critical)
		}

		fmt.Println("\nSchema is valid.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
