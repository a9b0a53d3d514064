// Package config provides configuration management for the relation manager.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional config.yaml.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: Logging level and format
//   - Relations: policy defaults, per-type overrides and declared link tables
//
// # Relations
//
// RelationsConfig implements relation.Settings, so it can be handed to a relation.Resolver:
//
//	relations:
//	  after_primary_mode: false
//	  clear_on_empty_mode: false
//	  types:
//	    user_books:
//	      clear_on_empty_mode: true
//	  definitions:
//	    - name: user_books
//	      first_column: user_id
//	      second_column: book_id
//	      first_owner: users
//	      second_owner: books
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	relation.DefaultResolver().SetSettings(cfg.Relations)
package config
