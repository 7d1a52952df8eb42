package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"schema-sync/core/schema"

	"gorm.io/gorm"
)

// ErrIntrospection indicates the database metadata catalog could not be
// read (connection lost, insufficient privilege). Fatal to a sync pass.
var ErrIntrospection = errors.New("schema introspection failed")

// HistoryTable is the reconciler's own bookkeeping table. It is excluded
// from table listings so it never shows up as an extra table.
const HistoryTable = "schema_sync_history"

// Inspector reads the live database's metadata catalog and produces actual
// structural descriptions. MySQL is read through information_schema, SQLite
// through its introspection pragmas.
type Inspector struct {
	db *gorm.DB
}

// NewInspector creates an Inspector bound to the given database handle.
func NewInspector(db *gorm.DB) *Inspector {
	return &Inspector{db: db}
}

// Dialect returns the schema dialect of the underlying connection.
func (i *Inspector) Dialect() schema.Dialect {
	if i.db.Dialector.Name() == "sqlite" {
		return schema.DialectSQLite
	}
	return schema.DialectMySQL
}

// ListTables returns the names of all base tables, sorted, excluding the
// reconciler's bookkeeping table and engine-internal tables.
func (i *Inspector) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	var err error

	if i.Dialect() == schema.DialectSQLite {
		err = i.db.WithContext(ctx).
			Raw(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`).
			Scan(&names).Error
	} else {
		err = i.db.WithContext(ctx).
			Raw(`SELECT TABLE_NAME AS name FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'`).
			Scan(&names).Error
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tables: %v", ErrIntrospection, err)
	}

	filtered := names[:0]
	for _, name := range names {
		if name == HistoryTable {
			continue
		}
		filtered = append(filtered, name)
	}
	sort.Strings(filtered)
	return filtered, nil
}

// GetTableSchema returns the actual structural description of a table, or
// nil if the table does not exist. Absence is an expected outcome, not an
// error.
func (i *Inspector) GetTableSchema(ctx context.Context, table string) (*schema.TableSpec, error) {
	columns, err := i.getColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, nil
	}

	spec := &schema.TableSpec{
		TableName: table,
		Columns:   columns,
		Indexes:   make(map[string]schema.IndexSpec),
	}

	indexes, err := i.getIndexes(ctx, table)
	if err != nil {
		return nil, err
	}
	spec.Indexes = indexes

	fks, err := i.getForeignKeys(ctx, table)
	if err != nil {
		return nil, err
	}
	spec.ForeignKeys = fks

	return spec, nil
}

// TableExists reports whether a table is present in the catalog.
func (i *Inspector) TableExists(ctx context.Context, table string) (bool, error) {
	var count int64
	var err error

	if i.Dialect() == schema.DialectSQLite {
		err = i.db.WithContext(ctx).
			Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).
			Scan(&count).Error
	} else {
		err = i.db.WithContext(ctx).
			Raw(`SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`, table).
			Scan(&count).Error
	}
	if err != nil {
		return false, fmt.Errorf("%w: failed to check table %s: %v", ErrIntrospection, table, err)
	}
	return count > 0, nil
}

// ColumnExists reports whether a column is present on a table.
func (i *Inspector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	columns, err := i.getColumns(ctx, table)
	if err != nil {
		return false, err
	}
	_, ok := columns[column]
	return ok, nil
}

func (i *Inspector) getColumns(ctx context.Context, table string) (map[string]schema.ColumnSpec, error) {
	columns := make(map[string]schema.ColumnSpec)

	if i.Dialect() == schema.DialectSQLite {
		// PRAGMA table_info returns an empty result for a missing table.
		type sqliteColumn struct {
			Cid       int
			Name      string
			Type      string
			Notnull   int
			DfltValue *string
			Pk        int
		}
		var rows []sqliteColumn
		err := i.db.WithContext(ctx).
			Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get columns for table %s: %v", ErrIntrospection, table, err)
		}
		for _, row := range rows {
			columns[row.Name] = schema.ColumnSpec{
				Name:         row.Name,
				PhysicalType: row.Type,
				NotNull:      row.Notnull == 1,
				DefaultValue: row.DfltValue,
				PrimaryKey:   row.Pk > 0,
			}
		}
		return columns, nil
	}

	type mysqlColumn struct {
		ColumnName    string
		ColumnType    string
		IsNullable    string
		ColumnDefault *string
		ColumnKey     string
	}
	var rows []mysqlColumn
	err := i.db.WithContext(ctx).
		Raw(`SELECT COLUMN_NAME AS column_name, COLUMN_TYPE AS column_type, IS_NULLABLE AS is_nullable, COLUMN_DEFAULT AS column_default, COLUMN_KEY AS column_key
		     FROM information_schema.COLUMNS
		     WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		     ORDER BY ORDINAL_POSITION`, table).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get columns for table %s: %v", ErrIntrospection, table, err)
	}
	for _, row := range rows {
		columns[row.ColumnName] = schema.ColumnSpec{
			Name:         row.ColumnName,
			PhysicalType: row.ColumnType,
			NotNull:      strings.EqualFold(row.IsNullable, "NO"),
			DefaultValue: row.ColumnDefault,
			PrimaryKey:   row.ColumnKey == "PRI",
		}
	}
	return columns, nil
}

func (i *Inspector) getIndexes(ctx context.Context, table string) (map[string]schema.IndexSpec, error) {
	indexes := make(map[string]schema.IndexSpec)

	if i.Dialect() == schema.DialectSQLite {
		type sqliteIndex struct {
			Seq     int
			Name    string
			Unique  int
			Origin  string
			Partial int
		}
		var rows []sqliteIndex
		err := i.db.WithContext(ctx).
			Raw(fmt.Sprintf("PRAGMA index_list('%s')", table)).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list indexes for table %s: %v", ErrIntrospection, table, err)
		}
		for _, row := range rows {
			// origin "pk" marks the implicit primary-key index; reporting it
			// would produce false extra-index signals.
			if row.Origin == "pk" {
				continue
			}
			type indexColumn struct {
				Seqno int
				Cid   int
				Name  string
			}
			var cols []indexColumn
			err := i.db.WithContext(ctx).
				Raw(fmt.Sprintf("PRAGMA index_info('%s')", row.Name)).
				Scan(&cols).Error
			if err != nil {
				return nil, fmt.Errorf("%w: failed to read index %s: %v", ErrIntrospection, row.Name, err)
			}
			idx := schema.IndexSpec{Name: row.Name, Unique: row.Unique == 1}
			for _, col := range cols {
				idx.Columns = append(idx.Columns, col.Name)
			}
			indexes[row.Name] = idx
		}
		return indexes, nil
	}

	type mysqlIndex struct {
		IndexName  string
		ColumnName string
		NonUnique  int
	}
	var rows []mysqlIndex
	err := i.db.WithContext(ctx).
		Raw(`SELECT INDEX_NAME AS index_name, COLUMN_NAME AS column_name, NON_UNIQUE AS non_unique
		     FROM information_schema.STATISTICS
		     WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		     ORDER BY INDEX_NAME, SEQ_IN_INDEX`, table).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list indexes for table %s: %v", ErrIntrospection, table, err)
	}
	for _, row := range rows {
		// The PRIMARY index is an implicit byproduct of the key declaration.
		if row.IndexName == "PRIMARY" {
			continue
		}
		idx := indexes[row.IndexName]
		idx.Name = row.IndexName
		idx.Unique = row.NonUnique == 0
		idx.Columns = append(idx.Columns, row.ColumnName)
		indexes[row.IndexName] = idx
	}
	return indexes, nil
}

func (i *Inspector) getForeignKeys(ctx context.Context, table string) ([]schema.ForeignKeySpec, error) {
	var fks []schema.ForeignKeySpec

	if i.Dialect() == schema.DialectSQLite {
		type sqliteFK struct {
			ID    int
			Seq   int
			Table string
			From  string
			To    string
		}
		var rows []sqliteFK
		err := i.db.WithContext(ctx).
			Raw(fmt.Sprintf("PRAGMA foreign_key_list('%s')", table)).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list foreign keys for table %s: %v", ErrIntrospection, table, err)
		}
		for _, row := range rows {
			fks = append(fks, schema.ForeignKeySpec{
				FromColumn: row.From,
				ToTable:    row.Table,
				ToColumn:   row.To,
			})
		}
		return fks, nil
	}

	type mysqlFK struct {
		FromColumn string
		ToTable    string
		ToColumn   string
	}
	var rows []mysqlFK
	err := i.db.WithContext(ctx).
		Raw(`SELECT COLUMN_NAME AS from_column, REFERENCED_TABLE_NAME AS to_table, REFERENCED_COLUMN_NAME AS to_column
		     FROM information_schema.KEY_COLUMN_USAGE
		     WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND REFERENCED_TABLE_NAME IS NOT NULL
		     ORDER BY ORDINAL_POSITION`, table).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list foreign keys for table %s: %v", ErrIntrospection, table, err)
	}
	for _, row := range rows {
		fks = append(fks, schema.ForeignKeySpec{
			FromColumn: row.FromColumn,
			ToTable:    row.ToTable,
			ToColumn:   row.ToColumn,
		})
	}
	return fks, nil
}
