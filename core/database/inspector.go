package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one column of a link table, in the shape of MySQL's SHOW COLUMNS.
// Field and Type are lowercased on every dialect.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// Nullable reports whether the column accepts NULL.
func (c ColumnInfo) Nullable() bool {
	return strings.EqualFold(c.Null, "YES")
}

// Primary reports whether the column is part of the primary key.
// Postgres columns never report a key.
func (c ColumnInfo) Primary() bool {
	return strings.EqualFold(c.Key, "PRI")
}

// Columns is the ordered column list of a table.
type Columns []ColumnInfo

// Lookup returns the column with the given name, ignoring case.
func (cs Columns) Lookup(name string) (ColumnInfo, bool) {
	name = strings.ToLower(name)
	for _, col := range cs {
		if col.Field == name {
			return col, true
		}
	}
	return ColumnInfo{}, false
}

// Missing returns the names that have no column, in the given order.
func (cs Columns) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := cs.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

type sqliteColumn struct {
	Cid        int
	Name       string
	Type       string
	Notnull    int
	DefaultVal *string `gorm:"column:dflt_value"`
	Pk         int
}

// GetTableColumns reads the column definitions of a table.
// A table that does not exist yields no columns on sqlite and postgres.
func GetTableColumns(db *gorm.DB, table string) (Columns, error) {
	var (
		columns Columns
		err     error
	)
	switch db.Dialector.Name() {
	case DriverSQLite:
		columns, err = sqliteColumns(db, table)
	case DriverPostgres:
		err = db.Raw(`SELECT column_name AS field, data_type AS type, is_nullable AS "null", column_default AS "default"
FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`, table).Scan(&columns).Error
	default:
		err = db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&columns).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}

	for i := range columns {
		columns[i].Field = strings.ToLower(columns[i].Field)
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

func sqliteColumns(db *gorm.DB, table string) (Columns, error) {
	var rows []sqliteColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}

	columns := make(Columns, 0, len(rows))
	for _, row := range rows {
		col := ColumnInfo{Field: row.Name, Type: row.Type, Null: "YES", Default: row.DefaultVal}
		if row.Notnull != 0 {
			col.Null = "NO"
		}
		if row.Pk > 0 {
			col.Key = "PRI"
		}
		columns = append(columns, col)
	}
	return columns, nil
}
