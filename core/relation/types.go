package relation

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Definition declares a relation type and the link table that stores it.
// The two key columns are named explicitly; nothing is inferred from validation rules.
type Definition struct {
	// Name is the relation type name. It keys the configuration defaults.
	Name string `json:"name"`

	// Table is the link table name.
	Table string `json:"table"`

	// FirstColumn is the column holding the first (master) side key.
	FirstColumn string `json:"first_column"`

	// SecondColumn is the column holding the second (slave) side key.
	SecondColumn string `json:"second_column"`

	// FirstOwner is the table of the first side entities.
	// When set, deleting such an entity removes its association rows.
	FirstOwner string `json:"first_owner,omitempty"`

	// SecondOwner is the table of the second side entities, used the same way as FirstOwner.
	SecondOwner string `json:"second_owner,omitempty"`

	// KeyKind is the column type of both key columns. Zero means KeyInt.
	KeyKind KeyKind `json:"key_kind,omitempty"`

	// IgnoreConflicts turns create into an insert that silently skips existing pairs,
	// closing the race between the existence check and the insert.
	IgnoreConflicts bool `json:"ignore_conflicts,omitempty"`
}

// Validate checks that the definition names a usable link table.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: relation name is empty", ErrConfiguration)
	}
	if d.Table == "" {
		return fmt.Errorf("%w: relation %s has no link table", ErrConfiguration, d.Name)
	}
	if d.FirstColumn == "" || d.SecondColumn == "" {
		return fmt.Errorf("%w: relation %s must name both key columns", ErrConfiguration, d.Name)
	}
	if d.FirstColumn == d.SecondColumn {
		return fmt.Errorf("%w: relation %s uses %s for both sides", ErrConfiguration, d.Name, d.FirstColumn)
	}
	return nil
}

// DefinitionFromModel derives a definition from a GORM link model.
// first and second name the key fields, either by Go field name or by column name;
// an unknown field fails with ErrConfiguration.
func DefinitionFromModel(db *gorm.DB, model any, name, first, second string) (Definition, error) {
	sch, err := schema.Parse(model, &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return Definition{}, fmt.Errorf("%w: failed to parse %T: %v", ErrConfiguration, model, err)
	}

	firstField := sch.LookUpField(first)
	if firstField == nil {
		return Definition{}, fmt.Errorf("%w: %s has no field %q", ErrConfiguration, sch.Name, first)
	}
	secondField := sch.LookUpField(second)
	if secondField == nil {
		return Definition{}, fmt.Errorf("%w: %s has no field %q", ErrConfiguration, sch.Name, second)
	}

	kind := KeyInt
	if firstField.DataType == schema.String {
		kind = KeyString
	}

	def := Definition{
		Name:         name,
		Table:        sch.Table,
		FirstColumn:  firstField.DBName,
		SecondColumn: secondField.DBName,
		KeyKind:      kind,
	}
	return def, def.Validate()
}

// AssociationRecord is one persisted row of a link table.
type AssociationRecord struct {
	// ID is the row identity.
	ID int64 `json:"id"`
	// First is the first side key.
	First Key `json:"first"`
	// Second is the second side key.
	Second Key `json:"second"`
}

// Config is the effective timing and clear policy of a relation type.
type Config struct {
	// AfterPrimary defers link and unlink writes until the owning entity is saved.
	AfterPrimary bool `json:"after_primary_mode"`
	// ClearOnEmpty makes an empty desired set remove every existing association.
	ClearOnEmpty bool `json:"clear_on_empty_mode"`
}

// Toggle is a per-call policy override.
type Toggle int8

const (
	// Inherit uses the configured default.
	Inherit Toggle = iota
	// Enable forces the policy on.
	Enable
	// Disable forces the policy off.
	Disable
)

// ToggleOf converts a bool into an explicit override.
func ToggleOf(b bool) Toggle {
	if b {
		return Enable
	}
	return Disable
}

// resolve returns the override if one is set.
func (t Toggle) resolve() (bool, bool) {
	switch t {
	case Enable:
		return true, true
	case Disable:
		return false, true
	default:
		return false, false
	}
}

// Options controls a single synchronizer call.
type Options struct {
	// BackLink makes the second side the primary one: its key drives the lookup and the diff.
	BackLink bool

	// AfterPrimary overrides the configured deferral policy.
	AfterPrimary Toggle

	// ClearOnEmpty overrides the configured empty-set policy.
	ClearOnEmpty Toggle
}

// OperationKind is the kind of a pending operation.
type OperationKind string

const (
	// OperationLink creates the pair if it is absent.
	OperationLink OperationKind = "link"
	// OperationUnlink deletes the pair if it is present.
	OperationUnlink OperationKind = "unlink"
)

// PendingOperation is a link or unlink postponed until an entity is saved.
// Refs are kept unresolved so that keys assigned by the save are picked up.
type PendingOperation struct {
	Kind   OperationKind
	First  Ref
	Second Ref
}

// Status is the result of one attempted pair.
type Status string

const (
	// StatusCreated means a new association row was written.
	StatusCreated Status = "created"
	// StatusAlreadyExists means the pair was already linked; nothing was written.
	StatusAlreadyExists Status = "already_exists"
	// StatusDeleted means the association row was removed.
	StatusDeleted Status = "deleted"
	// StatusNoOp means there was nothing to change.
	StatusNoOp Status = "noop"
	// StatusDeferred means the operation waits for the owning entity to be saved.
	StatusDeferred Status = "deferred"
	// StatusFailed means the operation failed; Reason holds the message.
	StatusFailed Status = "failed"
)

// SyncOutcome is the structured result for one attempted pair.
type SyncOutcome struct {
	// First is the first side key. It is zero when the side had no key yet.
	First Key `json:"first"`
	// Second is the second side key.
	Second Key `json:"second"`
	// Status is the result.
	Status Status `json:"status"`
	// Reason holds the failure message for StatusFailed.
	Reason string `json:"reason,omitempty"`
	// Record is the created, existing or deleted row, when known.
	Record *AssociationRecord `json:"record,omitempty"`
	// Err is the underlying error for StatusFailed.
	Err error `json:"-"`
}

// Failed reports whether the outcome is a failure.
func (o SyncOutcome) Failed() bool {
	return o.Status == StatusFailed
}

func failed(first, second Key, err error) SyncOutcome {
	return SyncOutcome{First: first, Second: second, Status: StatusFailed, Reason: err.Error(), Err: err}
}

// Outcomes is the result list of a batch call.
type Outcomes []SyncOutcome

// Count returns how many outcomes have the given status.
func (o Outcomes) Count(status Status) int {
	n := 0
	for _, out := range o {
		if out.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes.
func (o Outcomes) Failures() []SyncOutcome {
	var res []SyncOutcome
	for _, out := range o {
		if out.Failed() {
			res = append(res, out)
		}
	}
	return res
}

// OK reports whether no outcome failed.
func (o Outcomes) OK() bool {
	return len(o.Failures()) == 0
}

// Err is the failing variant of the result-reporting API: it returns a *RelationError
// when any pair failed, and nil otherwise.
func (o Outcomes) Err(relation string) error {
	failures := o.Failures()
	if len(failures) == 0 {
		return nil
	}
	return &RelationError{Relation: relation, Failures: failures}
}
