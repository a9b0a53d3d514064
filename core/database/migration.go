package database

import (
	"fmt"
	"reflect"

	"gorm.io/gorm"
)

// maxIndexNameLength is the longest index name MySQL accepts.
const maxIndexNameLength = 64

// LinkTable describes a many-to-many link table: an auto-increment id and two
// non-null key columns with a unique composite index.
type LinkTable struct {
	// Table is the link table name.
	Table string
	// FirstColumn is the first key column.
	FirstColumn string
	// SecondColumn is the second key column.
	SecondColumn string
	// StringKeys makes both key columns strings instead of integers.
	StringKeys bool
}

// IndexName returns the unique index name of the table.
// Names longer than 64 characters keep their last 64 characters.
func (t LinkTable) IndexName() string {
	name := fmt.Sprintf("%s_%s_%s", t.Table, t.FirstColumn, t.SecondColumn)
	if len(name) > maxIndexNameLength {
		name = name[len(name)-maxIndexNameLength:]
	}
	return name
}

// model builds a GORM model type for the table at runtime.
func (t LinkTable) model() any {
	keyType := reflect.TypeOf(int64(0))
	keyTag := "not null"
	if t.StringKeys {
		keyType = reflect.TypeOf("")
		keyTag = "type:varchar(191);not null"
	}

	index := t.IndexName()
	fields := []reflect.StructField{
		{
			Name: "ID",
			Type: reflect.TypeOf(int64(0)),
			Tag:  `gorm:"column:id;primaryKey;autoIncrement"`,
		},
		{
			Name: "First",
			Type: keyType,
			Tag:  reflect.StructTag(fmt.Sprintf(`gorm:"column:%s;%s;uniqueIndex:%s,priority:1"`, t.FirstColumn, keyTag, index)),
		},
		{
			Name: "Second",
			Type: keyType,
			Tag:  reflect.StructTag(fmt.Sprintf(`gorm:"column:%s;%s;uniqueIndex:%s,priority:2"`, t.SecondColumn, keyTag, index)),
		},
	}
	return reflect.New(reflect.StructOf(fields)).Interface()
}

// CreateLinkTable creates the link table if it does not exist yet.
func CreateLinkTable(db *gorm.DB, t LinkTable) error {
	if t.Table == "" || t.FirstColumn == "" || t.SecondColumn == "" {
		return fmt.Errorf("link table needs a name and two key columns")
	}
	if err := db.Table(t.Table).AutoMigrate(t.model()); err != nil {
		return fmt.Errorf("failed to migrate link table %s: %w", t.Table, err)
	}
	return nil
}

// DropLinkTable drops the link table.
func DropLinkTable(db *gorm.DB, t LinkTable) error {
	if err := db.Migrator().DropTable(t.Table); err != nil {
		return fmt.Errorf("failed to drop link table %s: %w", t.Table, err)
	}
	return nil
}

// VerifyLinkTable checks that the link table exists with both key columns.
// It returns the names of missing columns.
func VerifyLinkTable(db *gorm.DB, t LinkTable) ([]string, error) {
	columns, err := GetTableColumns(db, t.Table)
	if err != nil {
		return nil, err
	}

	return columns.Missing("id", t.FirstColumn, t.SecondColumn), nil
}
