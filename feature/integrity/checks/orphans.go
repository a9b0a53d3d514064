package checks

import (
	"context"
	"fmt"

	"relation-manager/core/relation"

	"gorm.io/gorm"
)

// OwnerKeyColumn is the primary key column of owner tables.
const OwnerKeyColumn = "id"

// Orphans counts the association rows of one side whose owner row no longer exists.
type Orphans struct {
	Relation string `json:"relation"`
	Column   string `json:"column"`
	Owner    string `json:"owner"`
	Count    int64  `json:"count"`
}

type side struct {
	column string
	owner  string
}

func sides(def relation.Definition) []side {
	var out []side
	if def.FirstOwner != "" {
		out = append(out, side{column: def.FirstColumn, owner: def.FirstOwner})
	}
	if def.SecondOwner != "" {
		out = append(out, side{column: def.SecondColumn, owner: def.SecondOwner})
	}
	return out
}

// CheckOrphans counts orphaned rows for each owned side of the relation.
// Sides without an owner table are skipped.
func CheckOrphans(ctx context.Context, db *gorm.DB, def relation.Definition) ([]Orphans, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := []Orphans{}
	for _, s := range sides(def) {
		var count int64
		err := db.WithContext(ctx).
			Table(def.Table).
			Where(fmt.Sprintf("%s NOT IN (?)", s.column), db.Table(s.owner).Select(OwnerKeyColumn)).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count orphans of %s.%s: %w", def.Table, s.column, err)
		}
		report = append(report, Orphans{Relation: def.Name, Column: s.column, Owner: s.owner, Count: count})
	}
	return report, nil
}

// FixOrphans deletes the orphaned rows and returns how many were removed.
func FixOrphans(ctx context.Context, db *gorm.DB, def relation.Definition) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	var removed int64
	for _, s := range sides(def) {
		res := db.WithContext(ctx).
			Table(def.Table).
			Where(fmt.Sprintf("%s NOT IN (?)", s.column), db.Table(s.owner).Select(OwnerKeyColumn)).
			Delete(map[string]any{})
		if res.Error != nil {
			return removed, fmt.Errorf("failed to delete orphans of %s.%s: %w", def.Table, s.column, res.Error)
		}
		removed += res.RowsAffected
	}
	return removed, nil
}
