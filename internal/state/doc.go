// Package state persists the client's local state in a SQLite database under
// the configured state directory: the session token and other settings, and
// the last study position of each deck.
//
// Migrations are embedded SQL scripts applied in file name order and tracked
// in SQLite's user_version. A database migrated by a newer client is refused
// with ErrSchemaTooNew; its contents are cheap to rebuild (log in again,
// restart a study walk).
package state
