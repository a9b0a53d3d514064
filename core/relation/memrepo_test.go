package relation

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// memRepo is an in-memory Repository with injectable failures.
type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    []AssociationRecord
	failAdd map[Key]error
	failDel map[Key]error
	creates int
}

func newMemRepo(rows ...[2]int64) *memRepo {
	r := &memRepo{failAdd: map[Key]error{}, failDel: map[Key]error{}}
	for _, row := range rows {
		r.nextID++
		r.rows = append(r.rows, AssociationRecord{ID: r.nextID, First: IntKey(row[0]), Second: IntKey(row[1])})
	}
	return r
}

func (r *memRepo) WithDB(*gorm.DB) Repository { return r }

func (r *memRepo) FindAll(context.Context) ([]AssociationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AssociationRecord{}, r.rows...), nil
}

func (r *memRepo) FindByFirst(_ context.Context, key Key) ([]AssociationRecord, error) {
	return r.filter(func(rec AssociationRecord) bool { return rec.First == key }), nil
}

func (r *memRepo) FindBySecond(_ context.Context, key Key) ([]AssociationRecord, error) {
	return r.filter(func(rec AssociationRecord) bool { return rec.Second == key }), nil
}

func (r *memRepo) FindExact(_ context.Context, first, second Key) (*AssociationRecord, error) {
	found := r.filter(func(rec AssociationRecord) bool { return rec.First == first && rec.Second == second })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *memRepo) Create(_ context.Context, first, second Key) (*AssociationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	if err, ok := r.failAdd[second]; ok {
		return nil, err
	}
	if first.IsZero() || second.IsZero() {
		return nil, fmt.Errorf("%w: key cannot be blank", ErrValidation)
	}
	r.nextID++
	rec := AssociationRecord{ID: r.nextID, First: first, Second: second}
	r.rows = append(r.rows, rec)
	return &rec, nil
}

func (r *memRepo) Delete(_ context.Context, record AssociationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failDel[record.Second]; ok {
		return err
	}
	for i, rec := range r.rows {
		if rec.ID == record.ID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: stale record", ErrPersistence)
}

func (r *memRepo) DeleteByFirst(_ context.Context, key Key) (int64, error) {
	return r.remove(func(rec AssociationRecord) bool { return rec.First == key }), nil
}

func (r *memRepo) DeleteBySecond(_ context.Context, key Key) (int64, error) {
	return r.remove(func(rec AssociationRecord) bool { return rec.Second == key }), nil
}

func (r *memRepo) filter(match func(AssociationRecord) bool) []AssociationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []AssociationRecord
	for _, rec := range r.rows {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (r *memRepo) remove(match func(AssociationRecord) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rows[:0]
	var n int64
	for _, rec := range r.rows {
		if match(rec) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	r.rows = kept
	return n
}

func (r *memRepo) seconds(first int64) []int64 {
	var out []int64
	for _, rec := range r.filter(func(rec AssociationRecord) bool { return rec.First == IntKey(first) }) {
		out = append(out, rec.Second.Value().(int64))
	}
	return out
}
