// Package history records generation runs in a local SQLite database: which
// tracks were selected, where the artifacts landed, and whether the upload
// succeeded. The `history` command reads it back for display.
package history
