// Package integrity provides health checks over the declared relations.
//
// # Checks Provided
//
//   - Schema: every link table has an id column and both key columns, typed for the relation's key kind.
//   - Orphans: association rows whose owner entity (first_owner / second_owner table) no longer exists.
//   - Snapshots: relations that have no snapshot in the storage bucket yet.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the link table schema check.
//   - GET /integrity/orphans : Counts orphaned rows (supports ?fix=true).
//   - GET /integrity/snapshots : Lists relations without a snapshot.
package integrity
