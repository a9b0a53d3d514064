package relation

import (
	"context"
	"testing"

	"relation-manager/core/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type User struct {
	Model
	Name string
}

type Book struct {
	Model
	Title string
}

// keyless is an entity that cannot produce a key.
type keyless struct {
	events Emitter
}

func (k *keyless) PrimaryKey() (any, bool) { return nil, false }
func (k *keyless) IsNewRecord() bool       { return false }
func (k *keyless) Events() *Emitter        { return &k.events }

var userBooks = Definition{
	Name:         "user_books",
	Table:        "user_books",
	FirstColumn:  "user_id",
	SecondColumn: "book_id",
	FirstOwner:   "users",
	SecondOwner:  "books",
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Book{}))
	require.NoError(t, database.CreateLinkTable(db, database.LinkTable{
		Table:        userBooks.Table,
		FirstColumn:  userBooks.FirstColumn,
		SecondColumn: userBooks.SecondColumn,
	}))
	return db
}

// setupSync wires a synchronizer for user_books on a fresh database with callbacks installed.
func setupSync(t *testing.T, settings Settings) (*Synchronizer, *gorm.DB) {
	t.Helper()

	db := setupDB(t)
	s, err := NewGorm(db, userBooks, NewResolver(settings), zap.NewNop())
	require.NoError(t, err)

	registry := NewRegistry()
	require.NoError(t, registry.Register(s))
	require.NoError(t, RegisterCallbacks(db, registry))
	return s, db
}

// pairs returns the stored (first, second) pairs as strings.
func pairs(t *testing.T, s *Synchronizer) [][2]string {
	t.Helper()

	records, err := s.All(context.Background())
	require.NoError(t, err)

	out := make([][2]string, 0, len(records))
	for _, rec := range records {
		out = append(out, [2]string{rec.First.String(), rec.Second.String()})
	}
	return out
}
