package reconcile

import "time"

// DiffKind classifies a structural difference between the expected and the
// actual schema.
type DiffKind string

const (
	// DiffMissingTable means an entity's table does not exist.
	DiffMissingTable DiffKind = "missing_table"
	// DiffExtraTable means a live table has no declaring entity.
	DiffExtraTable DiffKind = "extra_table"
	// DiffMissingColumn means a declared field has no backing column.
	DiffMissingColumn DiffKind = "missing_column"
	// DiffExtraColumn means a live column is not explained by any field.
	DiffExtraColumn DiffKind = "extra_column"
	// DiffTypeMismatch means the physical type is outside the expected
	// type's equivalence class.
	DiffTypeMismatch DiffKind = "type_mismatch"
	// DiffConstraintMismatch means the nullability disagrees with the model.
	DiffConstraintMismatch DiffKind = "constraint_mismatch"
	// DiffMissingIndex means a declared index has no live counterpart.
	DiffMissingIndex DiffKind = "missing_index"
)

// Severity classifies how a difference affects the in-sync verdict.
type Severity string

const (
	// SeverityInfo is purely advisory and never blocks.
	SeverityInfo Severity = "info"
	// SeverityWarning is a non-blocking concern.
	SeverityWarning Severity = "warning"
	// SeverityError blocks the "in sync" status.
	SeverityError Severity = "error"
)

// Difference is one typed, severity-classified discrepancy between the
// expected and the actual schema. Differences are data, not errors.
type Difference struct {
	// Kind is the difference classification.
	Kind DiffKind `json:"kind"`

	// Table is the affected table name.
	Table string `json:"table"`

	// Object is the affected column or index name, empty for table-level
	// differences. It is part of the deterministic report ordering.
	Object string `json:"object,omitempty"`

	// Description is a human-readable summary.
	Description string `json:"description"`

	// Severity is the blocking classification.
	Severity Severity `json:"severity"`

	// Details carries free-form context, e.g. the expected physical type.
	Details map[string]string `json:"details,omitempty"`
}

// SyncResult is the structured outcome of one reconciliation pass.
type SyncResult struct {
	// Success is false when error-severity differences remain after the
	// pass (or fixes were required but not applied).
	Success bool `json:"success"`

	// Timestamp records when the pass started.
	Timestamp time.Time `json:"timestamp"`

	// TablesCreated lists tables created by the ensure-tables step.
	TablesCreated []string `json:"tables_created"`

	// ColumnsAdded lists added columns as "table.column".
	ColumnsAdded []string `json:"columns_added"`

	// IndexesCreated lists created index names.
	IndexesCreated []string `json:"indexes_created"`

	// Errors collects per-fix application errors; the pass continues past
	// them (partial success).
	Errors []string `json:"errors"`

	// Warnings collects non-fatal findings, e.g. filler defaults supplied
	// for NOT NULL columns without a declared default.
	Warnings []string `json:"warnings"`

	// DifferencesFound is the diff count before fixes.
	DifferencesFound int `json:"differences_found"`

	// DifferencesResolved is how many differences the fixes eliminated.
	DifferencesResolved int `json:"differences_resolved"`

	// Differences is the initial diff list, kept for reporting.
	Differences []Difference `json:"differences,omitempty"`
}

// Status summarizes the current drift state for the status surfaces.
type Status struct {
	// InSync is true when no error-severity difference exists.
	InSync bool `json:"in_sync"`

	// LastSync is the timestamp of the most recent recorded pass, if any.
	LastSync *time.Time `json:"last_sync,omitempty"`

	// TotalDifferences is the current diff count.
	TotalDifferences int `json:"total_differences"`

	// CriticalDifferences counts error-severity differences.
	CriticalDifferences int `json:"critical_differences"`

	// Warnings counts warning-severity differences.
	Warnings int `json:"warnings"`

	// Info counts info-severity differences.
	Info int `json:"info"`

	// Differences is the current diff list.
	Differences []Difference `json:"differences"`
}

// Options controls a reconciliation pass.
type Options struct {
	// DryRun stops after producing the difference list; reporting never
	// fails, so Success is unconditionally true.
	DryRun bool

	// AutoFix applies additive corrective DDL. When false the pass stops
	// after reporting and Success reflects whether differences exist.
	AutoFix bool
}
