package checks

import (
	"fmt"
	"strings"

	"relation-manager/core/database"
	"relation-manager/core/relation"

	"gorm.io/gorm"
)

// SchemaReport is the result of a link table schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	Relation       string   `json:"relation"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies that the link table of every definition has the id column and
// both key columns with a type matching the key kind.
func CheckSchema(db *gorm.DB, defs []relation.Definition) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, def := range defs {
		tblReport := TableReport{
			Relation:       def.Name,
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}

		actualCols, err := database.GetTableColumns(db, def.Table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", def.Table, err))
			report.Matched = false
			continue
		}

		expected := map[string]relation.KeyKind{
			"id":             relation.KeyInt,
			def.FirstColumn:  def.KeyKind,
			def.SecondColumn: def.KeyKind,
		}
		for _, colName := range []string{"id", def.FirstColumn, def.SecondColumn} {
			actCol, exists := actualCols.Lookup(colName)
			if !exists {
				tblReport.MissingColumns = append(tblReport.MissingColumns, colName)
				tblReport.Status = "error"
				report.Matched = false
				continue
			}
			if !typeMatches(actCol.Type, expected[colName]) {
				mismatch := fmt.Sprintf("%s: expected %s, got %s", colName, kindName(expected[colName]), actCol.Type)
				tblReport.TypeMismatches = append(tblReport.TypeMismatches, mismatch)
				tblReport.Status = "error"
				report.Matched = false
			}
		}

		report.Tables[def.Table] = tblReport
	}

	return report, nil
}

// typeMatches is a soft check on the lowercased column type of any supported dialect.
func typeMatches(columnType string, kind relation.KeyKind) bool {
	if kind == relation.KeyString {
		return strings.Contains(columnType, "char") || strings.Contains(columnType, "text")
	}
	return strings.Contains(columnType, "int")
}

func kindName(kind relation.KeyKind) string {
	if kind == relation.KeyString {
		return "string"
	}
	return "integer"
}
