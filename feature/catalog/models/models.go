package models

import "schema-sync/core/schema"

// The catalog entities declare the expected shape of the application's
// tables. Each entity implements schema.Entity; relation fields only own a
// column on the side that stores the foreign key.

// Customer maps to the customers table.
type Customer struct{}

func (Customer) TableName() string  { return "customers" }
func (Customer) EntityName() string { return "Customer" }

func (Customer) Fields() []schema.FieldSpec {
	return []schema.FieldSpec{
		{Name: "id", Kind: schema.KindInteger, PrimaryKey: true},
		{Name: "name", Kind: schema.KindText, MaxLength: 255},
		{Name: "email", Kind: schema.KindText, MaxLength: 255, Unique: true, Nullable: true},
		{Name: "loyalty_points", Kind: schema.KindInteger, Default: "0", HasDefault: true},
		{Name: "is_active", Kind: schema.KindBoolean, Default: "true", HasDefault: true},
		{Name: "joined_at", Kind: schema.KindDateTime, Nullable: true},
		// Reverse side of Order.customer; owns no column here.
		{Name: "orders", Kind: schema.KindRelation, Relation: true, OwnsColumn: false},
	}
}

// Product maps to the products table.
type Product struct{}

func (Product) TableName() string  { return "products" }
func (Product) EntityName() string { return "Product" }

func (Product) Fields() []schema.FieldSpec {
	return []schema.FieldSpec{
		{Name: "id", Kind: schema.KindInteger, PrimaryKey: true},
		{Name: "sku", Kind: schema.KindText, MaxLength: 64, Unique: true},
		{Name: "name", Kind: schema.KindText, MaxLength: 255},
		{Name: "price", Kind: schema.KindDecimal, Precision: 10, Scale: 2, Default: "0", HasDefault: true},
		{Name: "attributes", Kind: schema.KindJSON, Nullable: true},
		{Name: "thumbnail", Kind: schema.KindBinary, Nullable: true},
		{Name: "released_on", Kind: schema.KindDate, Nullable: true},
	}
}

// Order maps to the orders table.
type Order struct{}

func (Order) TableName() string  { return "orders" }
func (Order) EntityName() string { return "Order" }

func (Order) Fields() []schema.FieldSpec {
	return []schema.FieldSpec{
		{Name: "id", Kind: schema.KindInteger, PrimaryKey: true},
		// Owning side: stores customer_id.
		{Name: "customer", Kind: schema.KindRelation, Relation: true, OwnsColumn: true},
		{Name: "status", Kind: schema.KindText, MaxLength: 32, Default: "pending", HasDefault: true},
		{Name: "total", Kind: schema.KindDecimal, Precision: 12, Scale: 2, Default: "0", HasDefault: true},
		{Name: "placed_at", Kind: schema.KindDateTime},
	}
}

func (Order) Indexes() [][]string {
	return [][]string{
		{"customer_id", "placed_at"},
	}
}

// OrderItem maps to the order_items table.
type OrderItem struct{}

func (OrderItem) TableName() string  { return "order_items" }
func (OrderItem) EntityName() string { return "OrderItem" }

func (OrderItem) Fields() []schema.FieldSpec {
	return []schema.FieldSpec{
		{Name: "id", Kind: schema.KindInteger, PrimaryKey: true},
		{Name: "order", Kind: schema.KindRelation, Relation: true, OwnsColumn: true},
		{Name: "product", Kind: schema.KindRelation, Relation: true, OwnsColumn: true},
		{Name: "quantity", Kind: schema.KindInteger, Default: "1", HasDefault: true},
		{Name: "unit_price", Kind: schema.KindDecimal, Precision: 10, Scale: 2},
	}
}

func (OrderItem) UniqueTogether() [][]string {
	return [][]string{
		{"order_id", "product_id"},
	}
}

// All returns every declared entity in registration order.
func All() []schema.Entity {
	return []schema.Entity{
		Customer{},
		Product{},
		Order{},
		OrderItem{},
	}
}
