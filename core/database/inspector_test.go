package database

import (
	"context"
	"fmt"
	"testing"

	"schema-sync/core/schema"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSQLiteDB creates an in-memory SQLite DB shared across the pool.
func setupSQLiteDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	return db
}

// setupMockMySQL wires a sqlmock connection behind the GORM mysql dialector.
func setupMockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestInspector_SQLite(t *testing.T) {
	db := setupSQLiteDB(t, "inspector_sqlite")
	ctx := context.Background()

	err := db.Exec(`CREATE TABLE customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE,
		loyalty_points INTEGER NOT NULL DEFAULT 0
	)`).Error
	require.NoError(t, err)
	err = db.Exec(`CREATE TABLE orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL REFERENCES customers(id),
		placed_at TIMESTAMP NOT NULL
	)`).Error
	require.NoError(t, err)
	err = db.Exec(`CREATE INDEX idx_orders_customer_id_placed_at ON orders (customer_id, placed_at)`).Error
	require.NoError(t, err)
	// The bookkeeping table must stay invisible to listings.
	err = db.Exec(fmt.Sprintf(`CREATE TABLE %s (id INTEGER PRIMARY KEY)`, HistoryTable)).Error
	require.NoError(t, err)

	inspector := NewInspector(db)
	assert.Equal(t, schema.DialectSQLite, inspector.Dialect())

	t.Run("ListTables", func(t *testing.T) {
		tables, err := inspector.ListTables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"customers", "orders"}, tables)
	})

	t.Run("TableExists", func(t *testing.T) {
		exists, err := inspector.TableExists(ctx, "customers")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = inspector.TableExists(ctx, "nonexistent")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("GetTableSchema", func(t *testing.T) {
		spec, err := inspector.GetTableSchema(ctx, "customers")
		require.NoError(t, err)
		require.NotNil(t, spec)
		assert.Len(t, spec.Columns, 4)

		id := spec.Columns["id"]
		assert.True(t, id.PrimaryKey)

		name := spec.Columns["name"]
		assert.Equal(t, "VARCHAR(255)", name.PhysicalType)
		assert.True(t, name.NotNull)

		points := spec.Columns["loyalty_points"]
		require.NotNil(t, points.DefaultValue)
		assert.Equal(t, "0", *points.DefaultValue)

		// The inline UNIQUE produced an engine index; the implicit
		// primary-key index must not be reported.
		foundUnique := false
		for _, idx := range spec.Indexes {
			assert.NotEqual(t, []string{"id"}, idx.Columns)
			if len(idx.Columns) == 1 && idx.Columns[0] == "email" {
				foundUnique = idx.Unique
			}
		}
		assert.True(t, foundUnique)
	})

	t.Run("GetTableSchema Missing Table", func(t *testing.T) {
		// PRAGMA table_info returns an empty result for a missing table;
		// absence is nil-nil, not an error.
		spec, err := inspector.GetTableSchema(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Nil(t, spec)
	})

	t.Run("Indexes", func(t *testing.T) {
		spec, err := inspector.GetTableSchema(ctx, "orders")
		require.NoError(t, err)
		require.NotNil(t, spec)

		idx, ok := spec.Indexes["idx_orders_customer_id_placed_at"]
		require.True(t, ok)
		assert.Equal(t, []string{"customer_id", "placed_at"}, idx.Columns)
		assert.False(t, idx.Unique)
	})

	t.Run("ForeignKeys", func(t *testing.T) {
		spec, err := inspector.GetTableSchema(ctx, "orders")
		require.NoError(t, err)
		require.NotNil(t, spec)
		require.Len(t, spec.ForeignKeys, 1)
		assert.Equal(t, "customer_id", spec.ForeignKeys[0].FromColumn)
		assert.Equal(t, "customers", spec.ForeignKeys[0].ToTable)
	})

	t.Run("ColumnExists", func(t *testing.T) {
		exists, err := inspector.ColumnExists(ctx, "customers", "email")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = inspector.ColumnExists(ctx, "customers", "phone")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestInspector_MySQL(t *testing.T) {
	ctx := context.Background()

	t.Run("ListTables", func(t *testing.T) {
		db, mock := setupMockMySQL(t)
		inspector := NewInspector(db)
		assert.Equal(t, schema.DialectMySQL, inspector.Dialect())

		mock.ExpectQuery("SELECT TABLE_NAME AS name FROM information_schema.TABLES").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).
				AddRow("orders").
				AddRow("customers").
				AddRow(HistoryTable))

		tables, err := inspector.ListTables(ctx)
		require.NoError(t, err)
		// Sorted, bookkeeping table excluded.
		assert.Equal(t, []string{"customers", "orders"}, tables)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetTableSchema", func(t *testing.T) {
		db, mock := setupMockMySQL(t)
		inspector := NewInspector(db)

		mock.ExpectQuery("FROM information_schema.COLUMNS").
			WithArgs("customers").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "column_default", "column_key"}).
				AddRow("id", "int(11)", "NO", nil, "PRI").
				AddRow("name", "varchar(255)", "NO", nil, "").
				AddRow("email", "varchar(255)", "YES", nil, "UNI"))

		mock.ExpectQuery("FROM information_schema.STATISTICS").
			WithArgs("customers").
			WillReturnRows(sqlmock.NewRows([]string{"index_name", "column_name", "non_unique"}).
				AddRow("PRIMARY", "id", 0).
				AddRow("idx_customers_email", "email", 0))

		mock.ExpectQuery("FROM information_schema.KEY_COLUMN_USAGE").
			WithArgs("customers").
			WillReturnRows(sqlmock.NewRows([]string{"from_column", "to_table", "to_column"}))

		spec, err := inspector.GetTableSchema(ctx, "customers")
		require.NoError(t, err)
		require.NotNil(t, spec)

		assert.Len(t, spec.Columns, 3)
		assert.True(t, spec.Columns["id"].PrimaryKey)
		assert.True(t, spec.Columns["name"].NotNull)
		assert.False(t, spec.Columns["email"].NotNull)

		// The PRIMARY index is filtered; the named unique index survives.
		require.Len(t, spec.Indexes, 1)
		idx := spec.Indexes["idx_customers_email"]
		assert.Equal(t, []string{"email"}, idx.Columns)
		assert.True(t, idx.Unique)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Introspection Failure", func(t *testing.T) {
		db, mock := setupMockMySQL(t)
		inspector := NewInspector(db)

		mock.ExpectQuery("SELECT TABLE_NAME AS name FROM information_schema.TABLES").
			WillReturnError(fmt.Errorf("connection lost"))

		_, err := inspector.ListTables(ctx)
		assert.ErrorIs(t, err, ErrIntrospection)
	})
}
