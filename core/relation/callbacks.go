package relation

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Registry holds the synchronizers of every declared relation type.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*Synchronizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Synchronizer)}
}

// Register adds a synchronizer. Relation names must be unique.
func (r *Registry) Register(s *Synchronizer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[s.Name()]; exists {
		return fmt.Errorf("%w: relation %s registered twice", ErrConfiguration, s.Name())
	}
	r.items[s.Name()] = s
	return nil
}

// Get returns the synchronizer of a relation type.
func (r *Registry) Get(name string) (*Synchronizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[name]
	return s, ok
}

// All returns every synchronizer sorted by relation name.
func (r *Registry) All() []*Synchronizer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Synchronizer, 0, len(r.items))
	for _, s := range r.items {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

// Owns reports whether any registered relation names table as an owner.
func (r *Registry) Owns(table string) bool {
	if table == "" {
		return false
	}
	for _, s := range r.All() {
		if s.def.FirstOwner == table || s.def.SecondOwner == table {
			return true
		}
	}
	return false
}

// Cascade removes the association rows of every relation owned by table that reference key.
func (r *Registry) Cascade(ctx context.Context, db *gorm.DB, table string, key Key) (int64, error) {
	var removed int64
	for _, s := range r.All() {
		n, err := s.Cascade(ctx, db, table, key)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

const (
	callbackAfterInsert  = "relations:after_insert"
	callbackAfterUpdate  = "relations:after_update"
	callbackBeforeDelete = "relations:before_delete"
	callbackAfterDelete  = "relations:after_delete"

	deletedKeysSetting = "relations:deleted_keys"
)

// RegisterCallbacks installs GORM callbacks that emit entity lifecycle events and,
// when registry is not nil, cascade deletes to association rows.
// Callbacks run inside the saving transaction; handlers receive that session.
func RegisterCallbacks(db *gorm.DB, registry *Registry) error {
	cb := db.Callback()

	if err := cb.Create().After("gorm:create").Register(callbackAfterInsert, emitCallback(AfterInsert, nil)); err != nil {
		return fmt.Errorf("failed to register %s: %w", callbackAfterInsert, err)
	}
	if err := cb.Update().After("gorm:update").Register(callbackAfterUpdate, emitCallback(AfterUpdate, nil)); err != nil {
		return fmt.Errorf("failed to register %s: %w", callbackAfterUpdate, err)
	}
	if registry != nil {
		if err := cb.Delete().Before("gorm:delete").Register(callbackBeforeDelete, collectDeletedKeys(registry)); err != nil {
			return fmt.Errorf("failed to register %s: %w", callbackBeforeDelete, err)
		}
	}
	if err := cb.Delete().After("gorm:delete").Register(callbackAfterDelete, emitCallback(AfterDelete, registry)); err != nil {
		return fmt.Errorf("failed to register %s: %w", callbackAfterDelete, err)
	}
	return nil
}

// callbackSession returns a session on the callback's connection that starts
// from a clean statement.
func callbackSession(tx *gorm.DB) (*gorm.DB, context.Context) {
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return tx.Session(&gorm.Session{NewDB: true, Context: ctx}), ctx
}

// collectDeletedKeys records the primary keys a delete is about to remove.
// Loaded entities give their own keys; otherwise the statement's WHERE clause
// is evaluated against the owner table.
func collectDeletedKeys(registry *Registry) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		stmt := tx.Statement
		if tx.Error != nil || stmt.Schema == nil || stmt.Schema.PrioritizedPrimaryField == nil || !registry.Owns(stmt.Table) {
			return
		}

		var keys []Key
		if stmt.ReflectValue.IsValid() {
			for _, e := range entitiesOf(stmt.ReflectValue) {
				if pk, ok := e.PrimaryKey(); ok && !e.IsNewRecord() {
					keys = append(keys, keyFromValue(pk))
				}
			}
		}

		if len(keys) == 0 {
			c, ok := stmt.Clauses["WHERE"]
			if !ok {
				return
			}
			where, ok := c.Expression.(clause.Where)
			if !ok || len(where.Exprs) == 0 {
				return
			}

			resolved, err := pluckKeys(tx, where)
			if err != nil {
				_ = tx.AddError(fmt.Errorf("%w: failed to resolve deleted keys of %s: %v", ErrPersistence, stmt.Table, err))
				return
			}
			keys = resolved
		}
		tx.InstanceSet(deletedKeysSetting, keys)
	}
}

// pluckKeys selects the primary keys of the owner rows matched by where.
func pluckKeys(tx *gorm.DB, where clause.Where) ([]Key, error) {
	stmt := tx.Statement
	pk := stmt.Schema.PrioritizedPrimaryField
	session, _ := callbackSession(tx)
	q := session.Model(reflect.New(stmt.Schema.ModelType).Interface()).Table(stmt.Table).Clauses(where)

	var keys []Key
	if pk.DataType == schema.String {
		var values []string
		if err := q.Pluck(pk.DBName, &values).Error; err != nil {
			return nil, err
		}
		for _, v := range values {
			keys = append(keys, StringKey(v))
		}
		return keys, nil
	}

	var values []int64
	if err := q.Pluck(pk.DBName, &values).Error; err != nil {
		return nil, err
	}
	for _, v := range values {
		keys = append(keys, IntKey(v))
	}
	return keys, nil
}

func emitCallback(kind EventKind, registry *Registry) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Schema == nil {
			return
		}
		if kind == AfterDelete && tx.RowsAffected == 0 {
			return
		}

		session, ctx := callbackSession(tx)

		if kind == AfterDelete && registry != nil {
			if v, ok := tx.InstanceGet(deletedKeysSetting); ok {
				for _, key := range v.([]Key) {
					if _, err := registry.Cascade(ctx, session, tx.Statement.Table, key); err != nil {
						_ = tx.AddError(err)
						return
					}
				}
			}
		}

		if !tx.Statement.ReflectValue.IsValid() {
			return
		}
		for _, e := range entitiesOf(tx.Statement.ReflectValue) {
			e.Events().Trigger(kind, e, session)
		}
	}
}

// entitiesOf collects the entities held by a statement's reflected value.
func entitiesOf(v reflect.Value) []Entity {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return entitiesOf(v.Elem())
	case reflect.Struct:
		if !v.CanAddr() {
			return nil
		}
		if e, ok := v.Addr().Interface().(Entity); ok {
			return []Entity{e}
		}
	case reflect.Slice, reflect.Array:
		var out []Entity
		for i := 0; i < v.Len(); i++ {
			out = append(out, entitiesOf(v.Index(i))...)
		}
		return out
	}
	return nil
}
