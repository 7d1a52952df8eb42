package reconcile

import (
	"strings"
	"testing"

	"schema-sync/core/schema"

	"github.com/stretchr/testify/assert"
)

func TestCreateTableSQL(t *testing.T) {
	spec := entitySpec("customers",
		schema.FieldSpec{Name: "id", Kind: schema.KindInteger, PrimaryKey: true},
		schema.FieldSpec{Name: "name", Kind: schema.KindText, MaxLength: 255},
		schema.FieldSpec{Name: "email", Kind: schema.KindText, MaxLength: 255, Unique: true, Nullable: true},
		schema.FieldSpec{Name: "is_active", Kind: schema.KindBoolean, Default: "true", HasDefault: true},
		// Reverse association must not appear in the DDL.
		schema.FieldSpec{Name: "orders", Kind: schema.KindRelation, Relation: true, OwnsColumn: false},
	)

	t.Run("MySQL", func(t *testing.T) {
		sql := CreateTableSQL(schema.DialectMySQL, spec)
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS `customers`")
		assert.Contains(t, sql, "`id` INTEGER PRIMARY KEY AUTO_INCREMENT")
		assert.Contains(t, sql, "`name` VARCHAR(255) NOT NULL")
		assert.Contains(t, sql, "`email` VARCHAR(255) UNIQUE")
		assert.Contains(t, sql, "`is_active` TINYINT(1) NOT NULL DEFAULT 1")
		assert.NotContains(t, sql, "orders")
	})

	t.Run("SQLite", func(t *testing.T) {
		sql := CreateTableSQL(schema.DialectSQLite, spec)
		assert.Contains(t, sql, `CREATE TABLE IF NOT EXISTS "customers"`)
		assert.Contains(t, sql, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`)
		assert.Contains(t, sql, `"is_active" BOOLEAN NOT NULL DEFAULT 1`)
	})
}

func TestCreateTableSQL_UniqueTogether(t *testing.T) {
	spec := entitySpec("order_items",
		schema.FieldSpec{Name: "id", Kind: schema.KindInteger, PrimaryKey: true},
		schema.FieldSpec{Name: "order", Kind: schema.KindRelation, Relation: true, OwnsColumn: true},
		schema.FieldSpec{Name: "product", Kind: schema.KindRelation, Relation: true, OwnsColumn: true},
	)
	spec.UniqueTogether = [][]string{{"order_id", "product_id"}}

	sql := CreateTableSQL(schema.DialectSQLite, spec)
	assert.Contains(t, sql, `UNIQUE ("order_id", "product_id")`)
}

func TestAddColumnSQL(t *testing.T) {
	t.Run("With Declared Default", func(t *testing.T) {
		field := schema.FieldSpec{Name: "loyalty_points", Kind: schema.KindInteger, Default: "0", HasDefault: true}
		sql, usedFiller := AddColumnSQL(schema.DialectMySQL, "customers", field)
		assert.Equal(t, "ALTER TABLE `customers` ADD COLUMN `loyalty_points` INTEGER NOT NULL DEFAULT 0", sql)
		assert.False(t, usedFiller)
	})

	t.Run("Nullable Without Default", func(t *testing.T) {
		field := schema.FieldSpec{Name: "joined_at", Kind: schema.KindDateTime, Nullable: true}
		sql, usedFiller := AddColumnSQL(schema.DialectMySQL, "customers", field)
		assert.Equal(t, "ALTER TABLE `customers` ADD COLUMN `joined_at` DATETIME", sql)
		assert.False(t, usedFiller)
	})

	t.Run("Not Null Without Default Gets Filler", func(t *testing.T) {
		field := schema.FieldSpec{Name: "score", Kind: schema.KindInteger}
		sql, usedFiller := AddColumnSQL(schema.DialectSQLite, "customers", field)
		assert.Equal(t, `ALTER TABLE "customers" ADD COLUMN "score" INTEGER NOT NULL DEFAULT 0`, sql)
		assert.True(t, usedFiller)
	})

	t.Run("Text Filler Is Empty String", func(t *testing.T) {
		field := schema.FieldSpec{Name: "code", Kind: schema.KindText, MaxLength: 16}
		sql, usedFiller := AddColumnSQL(schema.DialectSQLite, "customers", field)
		assert.Contains(t, sql, "NOT NULL DEFAULT ''")
		assert.True(t, usedFiller)
	})

	t.Run("Relation Column", func(t *testing.T) {
		field := schema.FieldSpec{Name: "customer", Kind: schema.KindRelation, Relation: true, OwnsColumn: true, Nullable: true}
		sql, _ := AddColumnSQL(schema.DialectMySQL, "orders", field)
		assert.Equal(t, "ALTER TABLE `orders` ADD COLUMN `customer_id` INTEGER", sql)
	})
}

func TestCreateIndexSQL(t *testing.T) {
	t.Run("MySQL", func(t *testing.T) {
		name, sql := CreateIndexSQL(schema.DialectMySQL, "orders", []string{"customer_id", "placed_at"}, false)
		assert.Equal(t, "idx_orders_customer_id_placed_at", name)
		assert.Equal(t, "CREATE INDEX `idx_orders_customer_id_placed_at` ON `orders` (`customer_id`, `placed_at`)", sql)
	})

	t.Run("SQLite Unique", func(t *testing.T) {
		name, sql := CreateIndexSQL(schema.DialectSQLite, "customers", []string{"email"}, true)
		assert.Equal(t, "idx_customers_email", name)
		assert.Equal(t, `CREATE UNIQUE INDEX IF NOT EXISTS "idx_customers_email" ON "customers" ("email")`, sql)
	})
}

func TestDefaultLiteral(t *testing.T) {
	tests := []struct {
		name  string
		field schema.FieldSpec
		want  string
	}{
		{"Boolean True", schema.FieldSpec{Kind: schema.KindBoolean, Default: "true"}, "1"},
		{"Boolean False", schema.FieldSpec{Kind: schema.KindBoolean, Default: "false"}, "0"},
		{"Integer", schema.FieldSpec{Kind: schema.KindInteger, Default: "42"}, "42"},
		{"Text", schema.FieldSpec{Kind: schema.KindText, Default: "pending"}, "'pending'"},
		{"Text With Quote", schema.FieldSpec{Kind: schema.KindText, Default: "o'clock"}, "'o''clock'"},
		{"Current Timestamp", schema.FieldSpec{Kind: schema.KindDateTime, Default: "CURRENT_TIMESTAMP"}, "CURRENT_TIMESTAMP"},
		{"Date Literal", schema.FieldSpec{Kind: schema.KindDate, Default: "2024-01-01"}, "'2024-01-01'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultLiteral(tt.field))
		})
	}
}

// No statement builder in this package may ever produce a destructive
// statement.
func TestDDLIsAdditiveOnly(t *testing.T) {
	spec := entitySpec("customers",
		schema.FieldSpec{Name: "id", Kind: schema.KindInteger, PrimaryKey: true},
		schema.FieldSpec{Name: "name", Kind: schema.KindText, MaxLength: 255},
	)

	statements := []string{CreateTableSQL(schema.DialectMySQL, spec)}
	sql, _ := AddColumnSQL(schema.DialectMySQL, "customers", spec.Fields["name"])
	statements = append(statements, sql)
	_, sql = CreateIndexSQL(schema.DialectMySQL, "customers", []string{"name"}, false)
	statements = append(statements, sql)

	for _, stmt := range statements {
		upper := strings.ToUpper(stmt)
		assert.NotContains(t, upper, "DROP")
		assert.NotContains(t, upper, "RENAME")
		assert.NotContains(t, upper, "MODIFY")
	}
}
