package relation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence boundary over association rows.
type Repository interface {
	// FindAll returns every association row of the relation.
	FindAll(ctx context.Context) ([]AssociationRecord, error)

	// FindByFirst returns the rows whose first key equals key.
	FindByFirst(ctx context.Context, key Key) ([]AssociationRecord, error)

	// FindBySecond returns the rows whose second key equals key.
	FindBySecond(ctx context.Context, key Key) ([]AssociationRecord, error)

	// FindExact returns the row for the pair, or nil if it does not exist.
	FindExact(ctx context.Context, first, second Key) (*AssociationRecord, error)

	// Create writes a new row. Callers check absence first; a collision is
	// reported as ErrDuplicate rather than ignored.
	Create(ctx context.Context, first, second Key) (*AssociationRecord, error)

	// Delete removes a row.
	Delete(ctx context.Context, record AssociationRecord) error

	// DeleteByFirst removes every row whose first key equals key.
	DeleteByFirst(ctx context.Context, key Key) (int64, error)

	// DeleteBySecond removes every row whose second key equals key.
	DeleteBySecond(ctx context.Context, key Key) (int64, error)

	// WithDB returns a repository bound to the given session, typically the
	// transaction of an in-flight save.
	WithDB(db *gorm.DB) Repository
}

// GormRepository implements Repository on a link table through GORM.
type GormRepository struct {
	db  *gorm.DB
	def Definition
}

// NewGormRepository creates a repository for the relation's link table.
func NewGormRepository(db *gorm.DB, def Definition) (*GormRepository, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, fmt.Errorf("%w: relation %s has no database", ErrConfiguration, def.Name)
	}
	return &GormRepository{db: db, def: def}, nil
}

// WithDB implements Repository.
func (r *GormRepository) WithDB(db *gorm.DB) Repository {
	return &GormRepository{db: db, def: r.def}
}

// table starts a fresh statement on the link table. The session may belong to an
// in-flight save, so the caller's statement must not be cloned.
func (r *GormRepository) table(ctx context.Context) *gorm.DB {
	return r.db.Session(&gorm.Session{NewDB: true, Context: ctx}).Table(r.def.Table)
}

// FindAll implements Repository.
func (r *GormRepository) FindAll(ctx context.Context) ([]AssociationRecord, error) {
	return r.find(ctx, nil)
}

// FindByFirst implements Repository.
func (r *GormRepository) FindByFirst(ctx context.Context, key Key) ([]AssociationRecord, error) {
	return r.find(ctx, map[string]any{r.def.FirstColumn: key.Value()})
}

// FindBySecond implements Repository.
func (r *GormRepository) FindBySecond(ctx context.Context, key Key) ([]AssociationRecord, error) {
	return r.find(ctx, map[string]any{r.def.SecondColumn: key.Value()})
}

// FindExact implements Repository.
func (r *GormRepository) FindExact(ctx context.Context, first, second Key) (*AssociationRecord, error) {
	records, err := r.find(ctx, map[string]any{
		r.def.FirstColumn:  first.Value(),
		r.def.SecondColumn: second.Value(),
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *GormRepository) find(ctx context.Context, cond map[string]any) ([]AssociationRecord, error) {
	var rows []map[string]any
	q := r.table(ctx)
	if cond != nil {
		q = q.Where(cond)
	}
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %v", ErrPersistence, r.def.Table, err)
	}

	records := make([]AssociationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, r.toRecord(row))
	}
	return records, nil
}

func (r *GormRepository) toRecord(row map[string]any) AssociationRecord {
	id, _ := keyFromValue(row["id"]).Value().(int64)
	return AssociationRecord{
		ID:     id,
		First:  keyFromValue(row[r.def.FirstColumn]),
		Second: keyFromValue(row[r.def.SecondColumn]),
	}
}

// Create implements Repository.
// Both keys are required; a zero key fails with ErrValidation.
func (r *GormRepository) Create(ctx context.Context, first, second Key) (*AssociationRecord, error) {
	var missing []string
	if first.IsZero() {
		missing = append(missing, r.def.FirstColumn)
	}
	if second.IsZero() {
		missing = append(missing, r.def.SecondColumn)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v cannot be blank", ErrValidation, missing)
	}

	values := map[string]any{
		r.def.FirstColumn:  first.Value(),
		r.def.SecondColumn: second.Value(),
	}

	q := r.table(ctx)
	if r.def.IgnoreConflicts {
		q = q.Clauses(r.ignoreConflict())
	}
	res := q.Create(values)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s (%s, %s)", ErrDuplicate, r.def.Table, first, second)
		}
		return nil, fmt.Errorf("%w: failed to insert into %s: %v", ErrPersistence, r.def.Table, res.Error)
	}

	record, err := r.FindExact(ctx, first, second)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// The insert went through but the row is not visible, so report what was written.
		record = &AssociationRecord{First: first, Second: second}
	}
	if r.def.IgnoreConflicts && res.RowsAffected == 0 {
		return record, ErrAlreadyExists
	}
	return record, nil
}

// ignoreConflict returns the insert clause that skips existing pairs on the current dialect.
func (r *GormRepository) ignoreConflict() clause.Expression {
	if r.db.Dialector.Name() == "mysql" {
		return clause.Insert{Modifier: "IGNORE"}
	}
	return clause.OnConflict{DoNothing: true}
}

// Delete implements Repository.
// A row that disappeared before the delete is reported as a stale record.
func (r *GormRepository) Delete(ctx context.Context, record AssociationRecord) error {
	q := r.table(ctx)
	if record.ID != 0 {
		q = q.Where(map[string]any{"id": record.ID})
	} else {
		q = q.Where(map[string]any{
			r.def.FirstColumn:  record.First.Value(),
			r.def.SecondColumn: record.Second.Value(),
		})
	}

	res := q.Delete(map[string]any{})
	if res.Error != nil {
		return fmt.Errorf("%w: failed to delete from %s: %v", ErrPersistence, r.def.Table, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: stale record %s (%s, %s)", ErrPersistence, r.def.Table, record.First, record.Second)
	}
	return nil
}

// DeleteByFirst implements Repository.
func (r *GormRepository) DeleteByFirst(ctx context.Context, key Key) (int64, error) {
	return r.deleteWhere(ctx, r.def.FirstColumn, key)
}

// DeleteBySecond implements Repository.
func (r *GormRepository) DeleteBySecond(ctx context.Context, key Key) (int64, error) {
	return r.deleteWhere(ctx, r.def.SecondColumn, key)
}

func (r *GormRepository) deleteWhere(ctx context.Context, column string, key Key) (int64, error) {
	res := r.table(ctx).Where(map[string]any{column: key.Value()}).Delete(map[string]any{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: failed to delete from %s: %v", ErrPersistence, r.def.Table, res.Error)
	}
	return res.RowsAffected, nil
}
