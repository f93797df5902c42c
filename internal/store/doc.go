// Package store provides a SQLite-backed run log.
//
// Every comparison or sweep run can be recorded with its configuration
// and result summary so that earlier runs can be listed and their inputs
// reproduced. The log is append-only:
//   - runs: one row per run (UUIDv7 id, kind, title, config, result)
//   - sweep_points: the aggregated members of sweep runs
//
// Ordering uses the seq INTEGER column assigned on insert, never wall
// time, so listings are stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Configurations are identified by ConfigHash: SHA-256 with domain
// separation over the JSON encoding of the config.
package store
