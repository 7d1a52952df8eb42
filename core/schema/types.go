package schema

// Dialect identifies the SQL engine the physical types are spelled for.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// FieldKind is the closed set of logical field types an entity may declare.
// The physical type mapper switches exhaustively over these values, so a new
// kind cannot silently fall through to the generic text fallback.
type FieldKind int

const (
	KindInteger FieldKind = iota
	KindText
	KindBoolean
	KindDecimal
	KindDate
	KindDateTime
	KindJSON
	KindBinary
	KindRelation
)

// String returns the lowercase name of the kind for logs and reports.
func (k FieldKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindJSON:
		return "json"
	case KindBinary:
		return "binary"
	case KindRelation:
		return "relation"
	default:
		return "unknown"
	}
}

// FieldSpec describes a single declared field of an entity.
// It is a value object: derived fresh on every analysis pass, never mutated.
type FieldSpec struct {
	// Name is the declared field name.
	Name string `json:"name"`

	// Kind is the logical field type.
	Kind FieldKind `json:"kind"`

	// Nullable indicates whether NULL is an acceptable value.
	Nullable bool `json:"nullable"`

	// Default is the declared default literal, or empty when none was declared.
	// HasDefault distinguishes "no default" from "default is the empty string".
	Default    string `json:"default,omitempty"`
	HasDefault bool   `json:"has_default"`

	// PrimaryKey marks the primary key field.
	PrimaryKey bool `json:"is_primary_key"`

	// Unique marks a single-column unique constraint.
	Unique bool `json:"is_unique"`

	// MaxLength bounds text fields; zero means unbounded.
	MaxLength int `json:"max_length,omitempty"`

	// Precision and Scale apply to decimal fields only.
	Precision int `json:"precision,omitempty"`
	Scale     int `json:"scale,omitempty"`

	// Relation marks a field referencing another entity. Only the owning side
	// (OwnsColumn=true) produces a physical column.
	Relation   bool `json:"is_relation"`
	OwnsColumn bool `json:"owns_column"`

	// Column overrides the derived physical column name when non-empty.
	Column string `json:"column,omitempty"`
}

// ColumnName returns the physical column this field maps to.
// Owning relation fields get an "_id" suffix unless an explicit column
// name was declared.
func (f FieldSpec) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	if f.Relation {
		return f.Name + "_id"
	}
	return f.Name
}

// Virtual reports whether the field produces no column in this table,
// i.e. it is the reverse side of an association.
func (f FieldSpec) Virtual() bool {
	return f.Relation && !f.OwnsColumn
}

// EntitySpec is the expected structural description of one entity's table.
type EntitySpec struct {
	// TableName is the physical table the entity maps to.
	TableName string `json:"table_name"`

	// SourceName is the declared entity name (e.g. "Customer").
	SourceName string `json:"source_name"`

	// FieldOrder preserves declaration order; Fields is keyed by field name.
	FieldOrder []string             `json:"field_order"`
	Fields     map[string]FieldSpec `json:"fields"`

	// DeclaredIndexes lists multi-column indexes by physical column names.
	DeclaredIndexes [][]string `json:"declared_indexes,omitempty"`

	// UniqueTogether lists composite unique constraints by physical column names.
	UniqueTogether [][]string `json:"unique_together,omitempty"`
}

// OrderedFields returns the fields in declaration order.
func (e EntitySpec) OrderedFields() []FieldSpec {
	fields := make([]FieldSpec, 0, len(e.FieldOrder))
	for _, name := range e.FieldOrder {
		fields = append(fields, e.Fields[name])
	}
	return fields
}

// OwnedFields returns the fields that produce a physical column,
// in declaration order.
func (e EntitySpec) OwnedFields() []FieldSpec {
	fields := make([]FieldSpec, 0, len(e.FieldOrder))
	for _, name := range e.FieldOrder {
		f := e.Fields[name]
		if f.Virtual() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// ColumnSpec is the actual description of one column as read from the
// database catalog.
type ColumnSpec struct {
	Name         string  `json:"name"`
	PhysicalType string  `json:"physical_type"`
	NotNull      bool    `json:"not_null"`
	DefaultValue *string `json:"default_value"`
	PrimaryKey   bool    `json:"is_primary_key"`
}

// IndexSpec is the actual description of one index.
type IndexSpec struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"is_unique"`
}

// ForeignKeySpec describes a foreign key edge read from the catalog.
type ForeignKeySpec struct {
	FromColumn string `json:"from_column"`
	ToTable    string `json:"to_table"`
	ToColumn   string `json:"to_column"`
}

// TableSpec is the actual structural description of one live table.
type TableSpec struct {
	TableName   string                `json:"table_name"`
	Columns     map[string]ColumnSpec `json:"columns"`
	Indexes     map[string]IndexSpec  `json:"indexes"`
	ForeignKeys []ForeignKeySpec      `json:"foreign_keys,omitempty"`
}
