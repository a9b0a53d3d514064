// Package relation maintains many-to-many associations stored in dedicated link tables.
//
// Given a desired set of counterparts for an entity, a Synchronizer reconciles the
// persisted link rows to match it. Two policies shape every call:
//   - AfterPrimary: link and unlink writes wait until the owning entity is saved.
//   - ClearOnEmpty: an empty desired set removes every association instead of being a no-op.
//
// # Architecture
//
// The package consists of the following components:
//
// 1. Keys: Ref is the caller-facing endpoint (raw ID, string, or Entity). Extract turns it
//    into a canonical Key once, so "7", 7 and an entity with primary key 7 are the same endpoint.
//
// 2. Repository: persistence boundary over link rows. GormRepository implements it for any
//    table whose two key columns are named by a Definition.
//
// 3. Resolver: resolves the effective Config from a per-call override, a per-type default
//    cached for the process lifetime, or false.
//
// 4. Synchronizer: computes a Plan (removals, then additions) and applies it, immediately or
//    through the Scheduler.
//
// 5. Scheduler: registers one-shot handlers on an entity's AfterInsert/AfterUpdate event.
//    RegisterCallbacks wires those events, and delete cascades, into GORM.
//
// # Failure model
//
// Per-pair write failures are reported as StatusFailed outcomes and the batch continues.
// Removing a no-longer-desired pair during reconciliation is the exception: its failure
// aborts the remaining plan. ErrConfiguration always aborts the whole call.
// Outcomes.Err turns failed outcomes into a *RelationError for callers that want an error.
//
// # Usage Example
//
//	def := relation.Definition{
//	    Name:         "users_books",
//	    Table:        "rel_users_to_books",
//	    FirstColumn:  "user_id",
//	    SecondColumn: "book_id",
//	    FirstOwner:   "users",
//	}
//	sync, err := relation.NewGorm(db, def, nil, logger)
//
//	// Set the books of a user to exactly {1, 5, 7}
//	outcomes, err := sync.LinkMany(ctx, []relation.Ref{relation.Of(user)}, relation.IDs(1, 5, 7), relation.Options{})
//
//	// Defer the write until the user is saved
//	out, err := sync.LinkOne(ctx, relation.Of(user), relation.ID(3), relation.Options{AfterPrimary: relation.Enable})
//	db.Save(user)
package relation
