package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"schema-sync/core/schema"
)

// typeEquivalence groups physical base types that engines treat as
// interchangeable. Any two types found together in one class match.
var typeEquivalence = []map[string]bool{
	{"INTEGER": true, "BIGINT": true, "SMALLINT": true, "INT": true, "MEDIUMINT": true, "TINYINT": true},
	{"VARCHAR": true, "TEXT": true, "CHAR": true, "TINYTEXT": true, "MEDIUMTEXT": true, "LONGTEXT": true, "CLOB": true},
	{"REAL": true, "FLOAT": true, "DOUBLE": true},
	{"TIMESTAMP": true, "DATETIME": true},
	{"DECIMAL": true, "NUMERIC": true, "REAL": true},
	{"BOOLEAN": true, "BOOL": true, "TINYINT": true},
	{"BLOB": true, "BINARY": true, "VARBINARY": true, "TINYBLOB": true, "MEDIUMBLOB": true, "LONGBLOB": true},
}

// systemColumns are recognized bookkeeping columns an application commonly
// adds outside the entity declarations; they never count as extra.
var systemColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"deleted_at": true,
}

// Compare computes the ordered list of typed, severity-tagged differences
// between the expected entity specs and the actual table specs.
//
// The output is deterministic: ordered by table name, then difference kind,
// then column/index name, regardless of catalog result ordering.
func Compare(entities map[string]schema.EntitySpec, tables map[string]*schema.TableSpec, dialect schema.Dialect) []Difference {
	var diffs []Difference

	for tableName, entity := range entities {
		table, ok := tables[tableName]
		if !ok || table == nil {
			diffs = append(diffs, Difference{
				Kind:        DiffMissingTable,
				Table:       tableName,
				Description: fmt.Sprintf("table %s does not exist", tableName),
				Severity:    SeverityError,
				Details:     map[string]string{"entity": entity.SourceName},
			})
			continue
		}

		diffs = append(diffs, compareColumns(entity, table, dialect)...)
		diffs = append(diffs, compareIndexes(entity, table)...)
	}

	// Live tables with no declaring entity. The bookkeeping table is already
	// excluded by the inspector.
	for tableName := range tables {
		if tables[tableName] == nil {
			continue
		}
		if _, ok := entities[tableName]; !ok {
			diffs = append(diffs, Difference{
				Kind:        DiffExtraTable,
				Table:       tableName,
				Description: fmt.Sprintf("table %s is not declared by any entity", tableName),
				Severity:    SeverityWarning,
			})
		}
	}

	sortDifferences(diffs)
	return diffs
}

func compareColumns(entity schema.EntitySpec, table *schema.TableSpec, dialect schema.Dialect) []Difference {
	var diffs []Difference

	for _, field := range entity.OwnedFields() {
		column := field.ColumnName()
		expectedType := schema.PhysicalType(dialect, field)

		actual, exists := table.Columns[column]
		if !exists {
			details := map[string]string{
				"expected_type": expectedType,
				"nullable":      fmt.Sprintf("%t", field.Nullable),
			}
			if field.HasDefault {
				details["default"] = field.Default
			}
			diffs = append(diffs, Difference{
				Kind:        DiffMissingColumn,
				Table:       entity.TableName,
				Object:      column,
				Description: fmt.Sprintf("column %s.%s is missing (expected %s)", entity.TableName, column, expectedType),
				Severity:    SeverityError,
				Details:     details,
			})
			continue
		}

		if !typesCompatible(expectedType, actual.PhysicalType) {
			diffs = append(diffs, Difference{
				Kind:        DiffTypeMismatch,
				Table:       entity.TableName,
				Object:      column,
				Description: fmt.Sprintf("column %s.%s has type %s, expected %s", entity.TableName, column, actual.PhysicalType, expectedType),
				Severity:    SeverityWarning,
				Details: map[string]string{
					"expected_type": expectedType,
					"actual_type":   actual.PhysicalType,
				},
			})
		}

		// Primary keys are implicitly non-null in virtually every engine;
		// comparing them would only produce noise.
		if !field.PrimaryKey && !actual.PrimaryKey {
			expectedNotNull := !field.Nullable
			if expectedNotNull != actual.NotNull {
				diffs = append(diffs, Difference{
					Kind:        DiffConstraintMismatch,
					Table:       entity.TableName,
					Object:      column,
					Description: fmt.Sprintf("column %s.%s nullability differs (expected NOT NULL=%t, actual NOT NULL=%t)", entity.TableName, column, expectedNotNull, actual.NotNull),
					Severity:    SeverityWarning,
					Details: map[string]string{
						"expected_not_null": fmt.Sprintf("%t", expectedNotNull),
						"actual_not_null":   fmt.Sprintf("%t", actual.NotNull),
					},
				})
			}
		}
	}

	// Columns present in the live table that no field explains. Never
	// removed, only reported.
	expected := make(map[string]bool)
	fieldNames := make(map[string]bool)
	for _, field := range entity.OwnedFields() {
		expected[field.ColumnName()] = true
	}
	for name := range entity.Fields {
		fieldNames[name] = true
	}

	for name, col := range table.Columns {
		if expected[name] || col.PrimaryKey || systemColumns[name] {
			continue
		}
		// A trailing "_id" may point back at a relation field.
		if strings.HasSuffix(name, "_id") && fieldNames[strings.TrimSuffix(name, "_id")] {
			continue
		}
		diffs = append(diffs, Difference{
			Kind:        DiffExtraColumn,
			Table:       entity.TableName,
			Object:      name,
			Description: fmt.Sprintf("column %s.%s is not declared by any field", entity.TableName, name),
			Severity:    SeverityWarning,
			Details:     map[string]string{"actual_type": col.PhysicalType},
		})
	}

	return diffs
}

func compareIndexes(entity schema.EntitySpec, table *schema.TableSpec) []Difference {
	// Expected set: declared multi-column indexes, single-column indexes
	// implied by unique non-primary-key fields, and composite unique
	// constraints.
	type expectedIndex struct {
		columns []string
		unique  bool
	}
	var want []expectedIndex
	for _, cols := range entity.DeclaredIndexes {
		want = append(want, expectedIndex{columns: cols})
	}
	for _, field := range entity.OwnedFields() {
		if field.Unique && !field.PrimaryKey {
			want = append(want, expectedIndex{columns: []string{field.ColumnName()}, unique: true})
		}
	}
	for _, cols := range entity.UniqueTogether {
		want = append(want, expectedIndex{columns: cols, unique: true})
	}

	actualSets := make([]map[string]bool, 0, len(table.Indexes))
	for _, idx := range table.Indexes {
		actualSets = append(actualSets, columnSet(idx.Columns))
	}

	var diffs []Difference
	for _, exp := range want {
		wantSet := columnSet(exp.columns)
		found := false
		for _, got := range actualSets {
			if sameColumnSet(wantSet, got) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		name := IndexName(entity.TableName, exp.columns)
		diffs = append(diffs, Difference{
			Kind:        DiffMissingIndex,
			Table:       entity.TableName,
			Object:      name,
			Description: fmt.Sprintf("index on %s(%s) is missing", entity.TableName, strings.Join(exp.columns, ", ")),
			Severity:    SeverityInfo,
			Details: map[string]string{
				"columns": strings.Join(exp.columns, ","),
				"unique":  fmt.Sprintf("%t", exp.unique),
			},
		})
	}
	return diffs
}

// IndexName derives the deterministic generated name for an index on the
// given columns.
func IndexName(table string, columns []string) string {
	return "idx_" + table + "_" + strings.Join(columns, "_")
}

func columnSet(columns []string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return set
}

func sameColumnSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for c := range a {
		if !b[c] {
			return false
		}
	}
	return true
}

// typesCompatible implements the three-step type equivalence model:
// exact match, parameter-stripped base name match, then the fixed
// equivalence table.
func typesCompatible(expected, actual string) bool {
	e := strings.ToUpper(strings.TrimSpace(expected))
	a := strings.ToUpper(strings.TrimSpace(actual))
	if e == a {
		return true
	}

	eb := baseType(e)
	ab := baseType(a)
	if eb == ab {
		return true
	}

	for _, class := range typeEquivalence {
		if class[eb] && class[ab] {
			return true
		}
	}
	return false
}

// baseType strips length/precision parameters and modifiers such as
// "unsigned" from a physical type spelling.
func baseType(t string) string {
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t, ')'); j >= 0 && j+1 < len(t) {
			rest = t[j+1:]
		}
		t = t[:i] + rest
	}
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

var kindRank = map[DiffKind]int{
	DiffMissingTable:       0,
	DiffExtraTable:         1,
	DiffMissingColumn:      2,
	DiffExtraColumn:        3,
	DiffTypeMismatch:       4,
	DiffConstraintMismatch: 5,
	DiffMissingIndex:       6,
}

func sortDifferences(diffs []Difference) {
	sort.SliceStable(diffs, func(i, j int) bool {
		if diffs[i].Table != diffs[j].Table {
			return diffs[i].Table < diffs[j].Table
		}
		if kindRank[diffs[i].Kind] != kindRank[diffs[j].Kind] {
			return kindRank[diffs[i].Kind] < kindRank[diffs[j].Kind]
		}
		return diffs[i].Object < diffs[j].Object
	})
}
