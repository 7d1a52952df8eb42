package reconcile

import (
	"fmt"
	"strings"

	"schema-sync/core/schema"
)

// Only additive statements are ever built here: CREATE TABLE IF NOT EXISTS,
// ALTER TABLE ADD COLUMN and CREATE INDEX. No drop, rename or type-change
// statement exists in this package.

func quoteIdent(dialect schema.Dialect, name string) string {
	if dialect == schema.DialectMySQL {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// defaultLiteral renders a declared default as a SQL literal appropriate
// for the field's kind.
func defaultLiteral(field schema.FieldSpec) string {
	switch field.Kind {
	case schema.KindBoolean:
		switch strings.ToLower(field.Default) {
		case "true", "1":
			return "1"
		default:
			return "0"
		}
	case schema.KindInteger, schema.KindDecimal, schema.KindRelation:
		return field.Default
	case schema.KindDateTime, schema.KindDate:
		if strings.EqualFold(field.Default, "CURRENT_TIMESTAMP") {
			return "CURRENT_TIMESTAMP"
		}
		return quoteLiteral(field.Default)
	default:
		return quoteLiteral(field.Default)
	}
}

// fillerDefault supplies a safe interim default so that adding a NOT NULL
// column succeeds against existing rows. The model declared no default, so
// this hides the need for a real backfill value; callers record a warning.
func fillerDefault(field schema.FieldSpec) string {
	switch field.Kind {
	case schema.KindInteger, schema.KindDecimal, schema.KindBoolean, schema.KindRelation:
		return "0"
	case schema.KindDate:
		return "'1970-01-01'"
	case schema.KindDateTime:
		return "CURRENT_TIMESTAMP"
	default:
		return "''"
	}
}

// columnDefinition renders one column clause for CREATE TABLE.
func columnDefinition(dialect schema.Dialect, field schema.FieldSpec) string {
	var b strings.Builder
	b.WriteString(quoteIdent(dialect, field.ColumnName()))
	b.WriteByte(' ')
	b.WriteString(schema.PhysicalType(dialect, field))

	if field.PrimaryKey {
		if field.Kind == schema.KindInteger {
			if dialect == schema.DialectMySQL {
				b.WriteString(" PRIMARY KEY AUTO_INCREMENT")
			} else {
				b.WriteString(" PRIMARY KEY AUTOINCREMENT")
			}
		} else {
			b.WriteString(" PRIMARY KEY")
		}
		return b.String()
	}

	if !field.Nullable {
		b.WriteString(" NOT NULL")
	}
	if field.HasDefault {
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultLiteral(field))
	}
	if field.Unique {
		b.WriteString(" UNIQUE")
	}
	return b.String()
}

// CreateTableSQL builds the additive CREATE TABLE IF NOT EXISTS statement
// for an entity. Foreign-key constraints are intentionally not emitted; the
// reconciler only guarantees columns, and constraint creation on populated
// tables is not an additive operation.
func CreateTableSQL(dialect schema.Dialect, entity schema.EntitySpec) string {
	var defs []string
	for _, field := range entity.OwnedFields() {
		defs = append(defs, columnDefinition(dialect, field))
	}
	for _, cols := range entity.UniqueTogether {
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = quoteIdent(dialect, c)
		}
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", strings.Join(quoted, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(dialect, entity.TableName), strings.Join(defs, ", "))
}

// AddColumnSQL builds the additive ALTER TABLE ADD COLUMN statement for a
// missing column. The second return value reports whether a filler default
// had to be supplied for a NOT NULL column without a declared default.
func AddColumnSQL(dialect schema.Dialect, table string, field schema.FieldSpec) (string, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s",
		quoteIdent(dialect, table),
		quoteIdent(dialect, field.ColumnName()),
		schema.PhysicalType(dialect, field))

	usedFiller := false
	switch {
	case field.HasDefault:
		if !field.Nullable {
			b.WriteString(" NOT NULL")
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultLiteral(field))
	case !field.Nullable:
		// The statement must succeed against existing rows.
		b.WriteString(" NOT NULL DEFAULT ")
		b.WriteString(fillerDefault(field))
		usedFiller = true
	}
	return b.String(), usedFiller
}

// CreateIndexSQL builds the additive CREATE INDEX statement for a missing
// index, with the deterministic generated name from IndexName.
func CreateIndexSQL(dialect schema.Dialect, table string, columns []string, unique bool) (name, sql string) {
	name = IndexName(table, columns)

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(dialect, c)
	}

	var b strings.Builder
	b.WriteString("CREATE ")
	if unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	// MySQL has no IF NOT EXISTS for indexes; the duplicate-name error is
	// handled as an idempotent race by the service.
	if dialect == schema.DialectSQLite {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(quoteIdent(dialect, name))
	b.WriteString(" ON ")
	b.WriteString(quoteIdent(dialect, table))
	fmt.Fprintf(&b, " (%s)", strings.Join(quoted, ", "))
	return name, b.String()
}
