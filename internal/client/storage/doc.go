// Package storage keeps small string records on the local machine. It
// backs the session's token persistence with either an SQLite database
// (migrated with goose on open) or an in-process map.
package storage
