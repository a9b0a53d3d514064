package config

import (
	"fmt"
	"strings"

	"relation-manager/core/database"
	"relation-manager/core/relation"
)

// RelationsConfig holds the relation policy defaults and the declared relations.
// It implements relation.Settings.
type RelationsConfig struct {
	// AfterPrimaryMode defers link writes until the owning entity is saved.
	AfterPrimaryMode bool `mapstructure:"after_primary_mode" default:"false"`
	// ClearOnEmptyMode makes an empty desired set remove every association.
	ClearOnEmptyMode bool `mapstructure:"clear_on_empty_mode" default:"false"`
	// Types overrides the defaults per relation type.
	Types map[string]RelationTypeConfig `mapstructure:"types"`
	// Definitions declares the link tables served by the CLI and the HTTP API.
	Definitions []DefinitionConfig `mapstructure:"definitions"`
}

// RelationTypeConfig overrides the defaults for one relation type. Unset fields inherit.
type RelationTypeConfig struct {
	AfterPrimaryMode *bool `mapstructure:"after_primary_mode"`
	ClearOnEmptyMode *bool `mapstructure:"clear_on_empty_mode"`
}

// DefinitionConfig declares one relation and its link table.
type DefinitionConfig struct {
	Name            string `mapstructure:"name"`
	Table           string `mapstructure:"table"`
	FirstColumn     string `mapstructure:"first_column"`
	SecondColumn    string `mapstructure:"second_column"`
	FirstOwner      string `mapstructure:"first_owner"`
	SecondOwner     string `mapstructure:"second_owner"`
	StringKeys      bool   `mapstructure:"string_keys"`
	IgnoreConflicts bool   `mapstructure:"ignore_conflicts"`
}

// RelationFlag implements relation.Settings.
// A per-type value wins over the global one. Type names are matched case-insensitively
// because viper lowercases map keys.
func (c RelationsConfig) RelationFlag(relationType string, flag relation.Flag) (bool, bool) {
	if t, ok := c.Types[strings.ToLower(relationType)]; ok {
		switch flag {
		case relation.FlagAfterPrimary:
			if t.AfterPrimaryMode != nil {
				return *t.AfterPrimaryMode, true
			}
		case relation.FlagClearOnEmpty:
			if t.ClearOnEmptyMode != nil {
				return *t.ClearOnEmptyMode, true
			}
		}
	}

	switch flag {
	case relation.FlagAfterPrimary:
		return c.AfterPrimaryMode, true
	case relation.FlagClearOnEmpty:
		return c.ClearOnEmptyMode, true
	default:
		return false, false
	}
}

// Validate checks every definition and rejects duplicate names.
func (c RelationsConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Definitions))
	for _, d := range c.Definitions {
		if err := d.Definition().Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("%w: relation %s declared twice", relation.ErrConfiguration, d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// Definition converts the declaration into a relation.Definition.
// The table defaults to the relation name.
func (d DefinitionConfig) Definition() relation.Definition {
	kind := relation.KeyInt
	if d.StringKeys {
		kind = relation.KeyString
	}
	return relation.Definition{
		Name:            d.Name,
		Table:           d.table(),
		FirstColumn:     d.FirstColumn,
		SecondColumn:    d.SecondColumn,
		FirstOwner:      d.FirstOwner,
		SecondOwner:     d.SecondOwner,
		KeyKind:         kind,
		IgnoreConflicts: d.IgnoreConflicts,
	}
}

// LinkTable converts the declaration into the migration description of its table.
func (d DefinitionConfig) LinkTable() database.LinkTable {
	return database.LinkTable{
		Table:        d.table(),
		FirstColumn:  d.FirstColumn,
		SecondColumn: d.SecondColumn,
		StringKeys:   d.StringKeys,
	}
}

func (d DefinitionConfig) table() string {
	if d.Table == "" {
		return d.Name
	}
	return d.Table
}
