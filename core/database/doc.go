// Package database handles database connections and live schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// configure MySQL and SQLite connections based on the application's
// configuration.
//
// # Connect
//
// The generic Connect function establishes a connection to the database.
// The driver is selected by configuration; SQLite is primarily used for
// hermetic tests and small deployments.
//
// # Schema Inspection
//
// The Inspector reads the engine's metadata catalog (information_schema on
// MySQL, introspection pragmas on SQLite) and produces schema.TableSpec
// values for the reconciler. A missing table yields nil rather than an
// error, since absence is an expected outcome during reconciliation.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	insp := database.NewInspector(db)
//	spec, err := insp.GetTableSchema(ctx, "customers")
package database
