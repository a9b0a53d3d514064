package relation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration indicates a misdeclared relation or an endpoint that cannot yield a key.
	// It always aborts the whole call.
	ErrConfiguration = errors.New("relation configuration error")

	// ErrValidation indicates that an association record failed its own validation.
	ErrValidation = errors.New("relation validation failed")

	// ErrPersistence indicates an I/O failure while reading or writing association records.
	ErrPersistence = errors.New("relation persistence failure")

	// ErrDuplicate indicates that the persistence layer rejected a pair that already exists.
	// It usually means a concurrent writer created the pair between the existence check and the insert.
	ErrDuplicate = errors.New("relation already exists")

	// ErrAlreadyExists is returned by Repository.Create together with the existing record
	// when conflicting inserts are ignored.
	ErrAlreadyExists = errors.New("relation record already present")
)

// RelationError aggregates the failed outcomes of a batch so that callers using the
// failing variant of the API get a single error carrying every underlying message.
type RelationError struct {
	// Relation is the relation type name.
	Relation string
	// Failures holds the failed outcomes in the order they were produced.
	Failures []SyncOutcome
}

// Error implements the error interface.
func (e *RelationError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, fmt.Sprintf("%s->%s: %s", f.First, f.Second, f.Reason))
	}
	return fmt.Sprintf("relation %s: %d pair(s) failed: %s", e.Relation, len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes the underlying per-pair errors to errors.Is and errors.As.
func (e *RelationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}
