package relation

// Entity is an owning entity that can take part in an association.
// It exposes its primary key, its persisted state, and the lifecycle events
// that deferred operations subscribe to.
type Entity interface {
	// PrimaryKey returns the primary key value. ok is false when the entity has none.
	PrimaryKey() (value any, ok bool)

	// IsNewRecord reports whether the entity has no assigned identity yet.
	IsNewRecord() bool

	// Events returns the entity's lifecycle event emitter.
	Events() *Emitter
}

// Model is an embeddable base for GORM models taking part in relations.
// It carries an auto-increment integer identity and an event emitter.
type Model struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`

	events *Emitter
}

// PrimaryKey implements Entity.
func (m *Model) PrimaryKey() (any, bool) {
	return m.ID, true
}

// IsNewRecord implements Entity.
func (m *Model) IsNewRecord() bool {
	return m.ID == 0
}

// Events implements Entity.
func (m *Model) Events() *Emitter {
	if m.events == nil {
		m.events = &Emitter{}
	}
	return m.events
}
