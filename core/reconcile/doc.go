// Package reconcile keeps the live database's physical structure
// synchronized with the declared entity schemas.
//
// One pass runs as a strictly sequential pipeline:
//
//	analyze -> introspect -> compare -> (optional) fix -> verify
//
// The comparator produces typed, severity-classified Differences in a
// deterministic order. Fix application is additive only: the package never
// builds a drop, rename or type-change statement, and extra columns or
// tables are reported but left untouched. Re-running a pass against an
// unchanged or previously-fixed database yields zero new fixes.
//
// Each fix is individually idempotent, so concurrent reconciler replicas
// degrade to no-ops rather than corruption: a duplicate-column rejection is
// confirmed via the inspector and treated as already resolved.
//
// # Usage
//
//	svc := reconcile.NewService(db, models.All(), logg)
//	result, err := svc.Sync(ctx, reconcile.Options{AutoFix: true})
//	if err != nil {
//	    return err // configuration or introspection error, fatal
//	}
//	if !result.Success {
//	    // error-severity drift remains; do not accept traffic
//	}
package reconcile
