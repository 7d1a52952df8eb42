package schema

import (
	"errors"
	"fmt"
)

// ErrConfiguration indicates the declared entities cannot be analyzed
// (duplicate table, colliding field names). It is fatal to the pass.
var ErrConfiguration = errors.New("entity configuration error")

// Analysis is the output of one analyzer pass.
type Analysis struct {
	// Entities maps table name to the expected structural description.
	Entities map[string]EntitySpec

	// Order lists table names in entity declaration order.
	Order []string

	// Warnings collects non-fatal findings, e.g. a field kind that had to
	// fall back to the generic text type.
	Warnings []string
}

// Analyze derives the expected structural description for each declared
// entity. It is a pure function of its inputs and performs no I/O.
//
// Entities marked abstract are skipped, as are virtual relation fields that
// do not own a column in this table.
func Analyze(entities []Entity) (*Analysis, error) {
	result := &Analysis{
		Entities: make(map[string]EntitySpec, len(entities)),
		Order:    make([]string, 0, len(entities)),
	}

	for _, entity := range entities {
		if abs, ok := entity.(Abstract); ok && abs.Abstract() {
			continue
		}

		table := entity.TableName()
		if table == "" {
			return nil, fmt.Errorf("%w: entity %s has no table name", ErrConfiguration, entity.EntityName())
		}
		if _, dup := result.Entities[table]; dup {
			return nil, fmt.Errorf("%w: table %s declared by more than one entity", ErrConfiguration, table)
		}

		spec := EntitySpec{
			TableName:  table,
			SourceName: entity.EntityName(),
			Fields:     make(map[string]FieldSpec),
		}

		for _, field := range entity.Fields() {
			if _, dup := spec.Fields[field.Name]; dup {
				return nil, fmt.Errorf("%w: entity %s declares field %s twice", ErrConfiguration, entity.EntityName(), field.Name)
			}
			if !knownKind(field.Kind) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("entity %s field %s has unrecognized kind %d, falling back to text", entity.EntityName(), field.Name, field.Kind))
			}
			spec.Fields[field.Name] = field
			spec.FieldOrder = append(spec.FieldOrder, field.Name)
		}

		if idx, ok := entity.(Indexer); ok {
			spec.DeclaredIndexes = idx.Indexes()
		}
		if uniq, ok := entity.(UniqueConstrainer); ok {
			spec.UniqueTogether = uniq.UniqueTogether()
		}

		result.Entities[table] = spec
		result.Order = append(result.Order, table)
	}

	return result, nil
}

func knownKind(k FieldKind) bool {
	return k >= KindInteger && k <= KindRelation
}

// PhysicalType maps a field's declared kind and parameters to the canonical
// physical type string for the given dialect. The switch is exhaustive over
// FieldKind; anything outside the enum falls back to the generic text type.
func PhysicalType(dialect Dialect, f FieldSpec) string {
	switch f.Kind {
	case KindInteger:
		return "INTEGER"
	case KindText:
		if f.MaxLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", f.MaxLength)
		}
		return "TEXT"
	case KindBoolean:
		if dialect == DialectMySQL {
			return "TINYINT(1)"
		}
		return "BOOLEAN"
	case KindDecimal:
		precision, scale := f.Precision, f.Scale
		if precision <= 0 {
			precision, scale = 10, 2
		}
		return fmt.Sprintf("DECIMAL(%d,%d)", precision, scale)
	case KindDate:
		return "DATE"
	case KindDateTime:
		if dialect == DialectMySQL {
			return "DATETIME"
		}
		return "TIMESTAMP"
	case KindJSON:
		if dialect == DialectMySQL {
			return "LONGTEXT"
		}
		return "TEXT"
	case KindBinary:
		return "BLOB"
	case KindRelation:
		// Owning side stores the referenced primary key.
		return "INTEGER"
	default:
		return "TEXT"
	}
}
