// Package stores keeps a history of configuration loads in SQLite.
//
// Each load becomes one row in loads plus one row per rejected or ignored
// line in load_issues, so a board file's health can be followed across
// edits. The schema is managed with golang-migrate from embedded SQL files.
package stores
