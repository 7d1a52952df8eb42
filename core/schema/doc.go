// Package schema defines the expected side of schema reconciliation.
//
// Entities declare their table shape through the Entity descriptor interface
// instead of struct tags or runtime reflection. The Analyzer walks the
// declared entities and produces one EntitySpec per table: an ordered set of
// FieldSpecs plus declared indexes and composite unique constraints.
//
// The package also owns the actual-side value types (ColumnSpec, IndexSpec,
// TableSpec) populated by the database inspector, so that the comparator can
// work on a single vocabulary.
//
// # Usage
//
//	analysis, err := schema.Analyze(models.All())
//	if err != nil {
//	    return err // configuration error, fatal to the pass
//	}
//	expected := analysis.Entities["customers"]
package schema
