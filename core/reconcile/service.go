package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"schema-sync/core/database"
	"schema-sync/core/schema"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service orchestrates one reconciliation pass:
// analyze -> introspect -> compare -> (optional) fix -> verify.
// Construct one Service per database context; it holds no state across
// calls beyond the shared database handle.
type Service struct {
	db        *gorm.DB
	inspector *database.Inspector
	entities  []schema.Entity
	logger    *zap.Logger
}

// NewService creates a reconciliation service over the given database
// handle and declared entities.
func NewService(db *gorm.DB, entities []schema.Entity, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		inspector: database.NewInspector(db),
		entities:  entities,
		logger:    logger,
	}
}

// Inspector exposes the underlying structure introspector.
func (s *Service) Inspector() *database.Inspector {
	return s.inspector
}

// Sync runs one reconciliation pass and reports a structured result.
//
// With DryRun set it stops after producing the difference list and Success
// is unconditionally true. Without AutoFix it stops after reporting and
// Success is false when any difference exists. Otherwise fixes are applied
// grouped by kind (tables, then columns, then indexes), each fix isolated,
// and the comparator re-runs to verify; remaining error-severity
// differences downgrade Success while keeping already-applied fixes.
func (s *Service) Sync(ctx context.Context, opts Options) (*SyncResult, error) {
	result := &SyncResult{
		Timestamp:      time.Now(),
		TablesCreated:  []string{},
		ColumnsAdded:   []string{},
		IndexesCreated: []string{},
		Errors:         []string{},
		Warnings:       []string{},
	}

	specs, diffs, warnings, err := s.analyzeAndCompare(ctx)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	result.Differences = diffs
	result.DifferencesFound = len(diffs)

	if opts.DryRun {
		// Reporting never fails.
		result.Success = true
		s.logger.Info("Dry run completed", zap.Int("differences", len(diffs)))
		return result, nil
	}

	if !opts.AutoFix {
		result.Success = len(diffs) == 0
		s.recordHistory(ctx, result, opts)
		return result, nil
	}

	s.applyFixes(ctx, specs, diffs, result)

	// Re-verification. Remaining error-severity differences downgrade
	// success; applied fixes are safe in isolation and are kept.
	_, remaining, _, err := s.analyzeAndCompare(ctx)
	if err != nil {
		return nil, err
	}
	resolved := result.DifferencesFound - len(remaining)
	if resolved < 0 {
		resolved = 0
	}
	result.DifferencesResolved = resolved
	result.Success = countSeverity(remaining, SeverityError) == 0

	s.recordHistory(ctx, result, opts)
	s.logger.Info("Schema sync completed",
		zap.Bool("success", result.Success),
		zap.Int("differences_found", result.DifferencesFound),
		zap.Int("differences_resolved", result.DifferencesResolved),
		zap.Int("tables_created", len(result.TablesCreated)),
		zap.Int("columns_added", len(result.ColumnsAdded)),
		zap.Int("indexes_created", len(result.IndexesCreated)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// Validate runs the comparator only and returns the current differences
// without fixing anything.
func (s *Service) Validate(ctx context.Context) ([]Difference, error) {
	_, diffs, _, err := s.analyzeAndCompare(ctx)
	return diffs, err
}

// Status reports the current drift state and the last recorded sync time.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	diffs, err := s.Validate(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		TotalDifferences:    len(diffs),
		CriticalDifferences: countSeverity(diffs, SeverityError),
		Warnings:            countSeverity(diffs, SeverityWarning),
		Info:                countSeverity(diffs, SeverityInfo),
		Differences:         diffs,
		LastSync:            s.lastSync(ctx),
	}
	status.InSync = status.CriticalDifferences == 0
	return status, nil
}

// EnsureTables creates every expected table that does not exist yet, using
// additive CREATE TABLE IF NOT EXISTS statements. It returns the names of
// the tables it created, sorted.
func (s *Service) EnsureTables(ctx context.Context, entities map[string]schema.EntitySpec) ([]string, error) {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)

	var created []string
	for _, name := range names {
		exists, err := s.inspector.TableExists(ctx, name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		ddl := CreateTableSQL(s.inspector.Dialect(), entities[name])
		s.logger.Info("Creating table", zap.String("table", name))
		if err := s.db.WithContext(ctx).Exec(ddl).Error; err != nil {
			return created, fmt.Errorf("failed to create table %s: %w", name, err)
		}
		created = append(created, name)
	}
	return created, nil
}

// analyzeAndCompare runs the pure pipeline stages shared by Sync, Validate
// and Status: analyzer, introspector, comparator.
func (s *Service) analyzeAndCompare(ctx context.Context) (map[string]schema.EntitySpec, []Difference, []string, error) {
	analysis, err := schema.Analyze(s.entities)
	if err != nil {
		return nil, nil, nil, err
	}

	tables, err := s.introspect(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	diffs := Compare(analysis.Entities, tables, s.inspector.Dialect())
	return analysis.Entities, diffs, analysis.Warnings, nil
}

// introspect reads the actual structure of every live table.
func (s *Service) introspect(ctx context.Context) (map[string]*schema.TableSpec, error) {
	names, err := s.inspector.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*schema.TableSpec, len(names))
	for _, name := range names {
		spec, err := s.inspector.GetTableSchema(ctx, name)
		if err != nil {
			return nil, err
		}
		if spec != nil {
			tables[name] = spec
		}
	}
	return tables, nil
}

// applyFixes applies additive DDL for the fixable differences, grouped by
// kind in a fixed order so logs and failure reporting stay coherent:
// missing tables first, then missing columns, then missing indexes.
// Every fix is isolated; a rejected statement is recorded and the pass
// continues.
func (s *Service) applyFixes(ctx context.Context, specs map[string]schema.EntitySpec, diffs []Difference, result *SyncResult) {
	dialect := s.inspector.Dialect()

	// Missing tables. The diff list is already sorted, so creation order is
	// deterministic.
	missingTables := make(map[string]schema.EntitySpec)
	for _, diff := range diffs {
		if diff.Kind == DiffMissingTable {
			missingTables[diff.Table] = specs[diff.Table]
		}
	}
	if len(missingTables) > 0 {
		created, err := s.EnsureTables(ctx, missingTables)
		result.TablesCreated = append(result.TablesCreated, created...)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
		// Unique constraints are baked into CREATE TABLE; the declared
		// non-unique indexes still need creating so the verification pass
		// comes back clean.
		for _, table := range created {
			for _, columns := range specs[table].DeclaredIndexes {
				name, ddl := CreateIndexSQL(dialect, table, columns, false)
				s.logger.Info("Creating index", zap.String("table", table), zap.String("index", name))
				if err := s.db.WithContext(ctx).Exec(ddl).Error; err != nil {
					result.Errors = append(result.Errors,
						fmt.Sprintf("failed to create index %s on %s: %v", name, table, err))
					continue
				}
				result.IndexesCreated = append(result.IndexesCreated, name)
			}
		}
	}

	// Missing columns. One additive statement per column; a duplicate-column
	// rejection from a concurrent reconciler is confirmed via ColumnExists
	// and treated as already resolved.
	for _, diff := range diffs {
		if diff.Kind != DiffMissingColumn {
			continue
		}
		if _, created := missingTables[diff.Table]; created {
			// Freshly created tables already carry all their columns.
			continue
		}
		entity, ok := specs[diff.Table]
		if !ok {
			continue
		}
		field, ok := fieldForColumn(entity, diff.Object)
		if !ok {
			continue
		}

		ddl, usedFiller := AddColumnSQL(dialect, diff.Table, field)
		s.logger.Info("Adding column", zap.String("table", diff.Table), zap.String("column", diff.Object))
		if err := s.db.WithContext(ctx).Exec(ddl).Error; err != nil {
			exists, checkErr := s.inspector.ColumnExists(ctx, diff.Table, diff.Object)
			if checkErr == nil && exists {
				s.logger.Info("Column already added by a concurrent reconciler",
					zap.String("table", diff.Table), zap.String("column", diff.Object))
				result.ColumnsAdded = append(result.ColumnsAdded, diff.Table+"."+diff.Object)
				continue
			}
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to add column %s.%s: %v", diff.Table, diff.Object, err))
			continue
		}
		if usedFiller {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("column %s.%s is NOT NULL without a declared default; a filler default was supplied, existing rows may need a real backfill", diff.Table, diff.Object))
		}
		result.ColumnsAdded = append(result.ColumnsAdded, diff.Table+"."+diff.Object)
	}

	// Missing indexes. Advisory only, but cheap to create.
	for _, diff := range diffs {
		if diff.Kind != DiffMissingIndex {
			continue
		}
		columns := strings.Split(diff.Details["columns"], ",")
		unique := diff.Details["unique"] == "true"

		name, ddl := CreateIndexSQL(dialect, diff.Table, columns, unique)
		s.logger.Info("Creating index", zap.String("table", diff.Table), zap.String("index", name))
		if err := s.db.WithContext(ctx).Exec(ddl).Error; err != nil {
			if isDuplicateIndexError(err) {
				result.IndexesCreated = append(result.IndexesCreated, name)
				continue
			}
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to create index %s on %s: %v", name, diff.Table, err))
			continue
		}
		result.IndexesCreated = append(result.IndexesCreated, name)
	}
}

// fieldForColumn finds the declared field backing an expected column name.
func fieldForColumn(entity schema.EntitySpec, column string) (schema.FieldSpec, bool) {
	for _, field := range entity.OwnedFields() {
		if field.ColumnName() == column {
			return field, true
		}
	}
	return schema.FieldSpec{}, false
}

// isDuplicateIndexError matches the engine errors produced when a
// concurrent reconciler already created the same index.
func isDuplicateIndexError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key name") || strings.Contains(msg, "already exists")
}

func countSeverity(diffs []Difference, severity Severity) int {
	count := 0
	for _, d := range diffs {
		if d.Severity == severity {
			count++
		}
	}
	return count
}
