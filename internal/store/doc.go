// Package store provides a SQLite-backed content-addressed cache for
// compiled blocks.
//
// Blocks are keyed by their canonical fingerprint (hex SHA-256 with
// domain separation, computed in internal/hir) and stored as encoded
// JSON produced by hir.EncodeBlock. Because the key is derived from the
// block's definition names, writing the same block twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All listing queries order by seq ASC, fingerprint ASC COLLATE BINARY
// so results are identical across runs.
package store
