package schema

// Entity is the descriptor interface every declared entity implements.
// It replaces runtime reflection over model attributes with an explicit,
// statically-typed schema declaration.
type Entity interface {
	// TableName returns the physical table the entity maps to.
	TableName() string
	// EntityName returns the declared entity name (e.g. "Customer").
	EntityName() string
	// Fields returns the declared fields in declaration order.
	Fields() []FieldSpec
}

// Indexer is an optional interface for entities declaring multi-column
// indexes. Columns are given by physical column name.
type Indexer interface {
	Indexes() [][]string
}

// UniqueConstrainer is an optional interface for entities declaring
// composite unique constraints.
type UniqueConstrainer interface {
	UniqueTogether() [][]string
}

// Abstract is an optional interface marking base entities that do not map
// to a table of their own. Abstract entities are skipped by the analyzer.
type Abstract interface {
	Abstract() bool
}
