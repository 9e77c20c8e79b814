// Package database opens the journal database and inspects its schema.
//
// It wraps GORM with a SQLite driver for local, single-operator use and a MySQL driver
// for a shared journal. Connect verifies the connection with a ping bounded by the
// configured timeout.
//
// GetTableColumns and MissingColumns let the journal confirm that its table carries the
// columns it writes before recording anything.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	missing, err := database.MissingColumns(db, "journal_events", []string{"action", "keys"})
package database
