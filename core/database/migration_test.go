package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkTable_IndexName(t *testing.T) {
	short := LinkTable{Table: "rel_users_to_books", FirstColumn: "user_id", SecondColumn: "book_id"}
	assert.Equal(t, "rel_users_to_books_user_id_book_id", short.IndexName())

	long := LinkTable{
		Table:        "rel_organisation_departments_to_external_partner_companies",
		FirstColumn:  "organisation_department_id",
		SecondColumn: "external_partner_company_id",
	}
	name := long.IndexName()
	assert.Len(t, name, maxIndexNameLength)
	assert.True(t, strings.HasSuffix(name, "_external_partner_company_id"))
}

func TestCreateLinkTable(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	table := LinkTable{Table: "rel_users_to_books", FirstColumn: "user_id", SecondColumn: "book_id"}
	require.NoError(t, CreateLinkTable(db, table))

	// Migrating twice is harmless
	require.NoError(t, CreateLinkTable(db, table))

	missing, err := VerifyLinkTable(db, table)
	require.NoError(t, err)
	assert.Empty(t, missing)

	// The pair is unique
	require.NoError(t, db.Exec("INSERT INTO rel_users_to_books (user_id, book_id) VALUES (1, 2)").Error)
	assert.Error(t, db.Exec("INSERT INTO rel_users_to_books (user_id, book_id) VALUES (1, 2)").Error)
	assert.NoError(t, db.Exec("INSERT INTO rel_users_to_books (user_id, book_id) VALUES (2, 1)").Error)

	require.NoError(t, DropLinkTable(db, table))
	assert.False(t, db.Migrator().HasTable("rel_users_to_books"))
}

func TestCreateLinkTable_StringKeys(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	table := LinkTable{Table: "rel_tags", FirstColumn: "post_slug", SecondColumn: "tag", StringKeys: true}
	require.NoError(t, CreateLinkTable(db, table))

	columns, err := GetTableColumns(db, "rel_tags")
	require.NoError(t, err)

	types := make(map[string]string)
	for _, col := range columns {
		types[col.Field] = col.Type
	}
	assert.Equal(t, "varchar(191)", types["post_slug"])
	assert.Equal(t, "varchar(191)", types["tag"])
}

func TestCreateLinkTable_Invalid(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	assert.Error(t, CreateLinkTable(db, LinkTable{Table: "rel_broken", FirstColumn: "a"}))
}

func TestVerifyLinkTable_MissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE rel_half (id INTEGER PRIMARY KEY, user_id INTEGER)").Error)

	missing, err := VerifyLinkTable(db, LinkTable{Table: "rel_half", FirstColumn: "user_id", SecondColumn: "book_id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"book_id"}, missing)
}
