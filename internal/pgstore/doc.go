// Package pgstore stores programs in a PostgreSQL table through GORM.
//
// # Overview
//
// Store implements program.Gateway, so the TUI and the CLI can run against
// a local database instead of the hosted document store. Select it with
// backend = "postgres" and a database_url in the cadre config.
//
// # Table Layout
//
// One row per program. The table name defaults to "programs" and follows the
// collection setting, so several environments can share a database.
//
//	id                      uuid primary key (generated on insert)
//	title                   varchar(100) not null
//	created_at              timestamptz not null, indexed
//	prerequisite_program_id varchar(64)
//	trainee_count           integer not null default 0
//	duration_in_weeks       integer not null default 2
//
// The table is created or extended with AutoMigrate when the store opens.
// Nothing is ever dropped.
//
// # Connecting
//
// Open retries the connection with exponential backoff: 1s, 2s, 4s, ...
// capped at 10s, five attempts by default. Each failure is logged at warn
// level. Cancelling the context stops the retry loop at once.
//
// GORM's own logger is silenced; cadre logs through zap instead.
//
// # Reads and Writes
//
//   - GetAll returns every row ordered by created_at, then id, as
//     program.Snapshot values. Documents from both gateways decode through
//     the same Snapshot.Program path.
//   - Create validates the draft with program.Validate before touching the
//     database, so a bad draft yields the same *program.ValidationError as
//     the document store would return.
//
// # Testing
//
// Tests that need a server run only when TEST_DATABASE_URL is set. They
// use the table cadre_test_programs and clear it first.
package pgstore
