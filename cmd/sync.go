package cmd

import (
	"fmt"

	"schema-sync/core/reconcile"
	"schema-sync/feature/catalog/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDryRun bool
	syncForce  bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the database schema with the declared entities",
	Long: `Runs one reconciliation pass: analyzes the declared entities, introspects
the live schema, reports every difference with its severity, and (with
--force) applies additive-only fixes. --dry-run reports without touching
anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logg, db, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer logg.Sync()

		svc := reconcile.NewService(db, models.All(), logg)
		result, err := svc.Sync(cmd.Context(), reconcile.Options{
			DryRun:  syncDryRun,
			AutoFix: syncForce && !syncDryRun,
		})
		if err != nil {
			return err
		}

		printDifferences(result.Differences)

		fmt.Println("\n=== Schema Sync Summary ===")
		fmt.Printf("Differences Found: %d\n", result.DifferencesFound)
		if !syncDryRun && syncForce {
			fmt.Printf("Differences Resolved: %d\n", result.DifferencesResolved)
			fmt.Printf("Tables Created: %d\n", len(result.TablesCreated))
			fmt.Printf("Columns Added: %d\n", len(result.ColumnsAdded))
			fmt.Printf("Indexes Created: %d\n", len(result.IndexesCreated))
		}
		for _, w := range result.Warnings {
			fmt.Printf("[~] %s\n", w)
		}
		for _, e := range result.Errors {
			fmt.Printf("[!] %s\n", e)
		}

		if !result.Success {
			if !syncForce && !syncDryRun {
				logg.Info("Run with --force to apply additive fixes.")
			}
			return fmt.Errorf("schema is not in sync (%d differences)", result.DifferencesFound)
		}

		logg.Info("Schema is in sync",
			zap.Int("differences_found", result.DifferencesFound),
			zap.Int("differences_resolved", result.DifferencesResolved),
		)
		return nil
	},
}

// printDifferences renders the per-category listings with severity markers:
// [!] error, [~] warning, [i] info.
func printDifferences(diffs []reconcile.Difference) {
	if len(diffs) == 0 {
		fmt.Println("No differences detected.")
		return
	}

	byKind := make(map[reconcile.DiffKind][]reconcile.Difference)
	for _, d := range diffs {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}

	order := []struct {
		kind  reconcile.DiffKind
		title string
	}{
		{reconcile.DiffMissingTable, "Missing Tables"},
		{reconcile.DiffMissingColumn, "Missing Columns"},
		{reconcile.DiffTypeMismatch, "Type Mismatches"},
		{reconcile.DiffConstraintMismatch, "Constraint Mismatches"},
		{reconcile.DiffExtraColumn, "Extra Columns"},
		{reconcile.DiffExtraTable, "Extra Tables"},
		{reconcile.DiffMissingIndex, "Missing Indexes"},
	}

	for _, group := range order {
		items := byKind[group.kind]
		if len(items) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", group.title)
		for _, d := range items {
			fmt.Printf("  %s %s\n", severityMarker(d.Severity), d.Description)
		}
	}
}

func severityMarker(s reconcile.Severity) string {
	switch s {
	case reconcile.SeverityError:
		return "[!]"
	case reconcile.SeverityWarning:
		return "[~]"
	default:
		return "[i]"
	}
}

func init() {
	RootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report differences without applying any fix")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Apply additive fixes for the differences found")
}
