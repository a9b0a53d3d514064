// Package database handles database connections, link table migrations and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL or SQLite connections
// based on the application's configuration.
//
// # Connect
//
// Connect picks the dialector from Config.Driver. SQLite connections are limited to a single
// open connection so that an in-memory database is shared by every query.
//
// # Link Tables
//
// CreateLinkTable builds a many-to-many table with an auto-increment id, two non-null key
// columns and a unique index over both keys. Index names keep their last 64 characters.
//
// # Schema Inspection
//
// GetTableColumns reads the column definitions of a table for the dialect in use.
// VerifyLinkTable and the integrity feature rely on it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.CreateLinkTable(db, database.LinkTable{Table: "user_books", FirstColumn: "user_id", SecondColumn: "book_id"})
package database
