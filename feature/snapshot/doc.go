// Package snapshot exports relation rows to object storage and restores them.
//
// A snapshot is a JSON document holding every row of one relation. Objects are stored
// under snapshots/<relation>/<timestamp>-<uuid>.json so that a prefix listing returns
// them in chronological order.
//
// Restoring reconciles every first side key found in the snapshot or in the table with
// clear-on-empty forced on, so the table ends with exactly the snapshot's pairs.
//
// # HTTP Endpoints
//
//   - POST /snapshots/:relation : exports a new snapshot.
//   - GET /snapshots/:relation : lists the stored snapshots.
//   - DELETE /snapshots/:relation?keep=N : removes all but the newest N snapshots.
//   - GET /snapshots/:relation/:name : returns a snapshot.
//   - POST /snapshots/:relation/:name/restore : restores a snapshot.
//   - DELETE /snapshots/:relation/:name : removes a snapshot.
package snapshot
