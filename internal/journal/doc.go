// Package journal provides SQLite-backed durable storage for memory-model
// operation logs.
//
// The journal is an append-only log of the operations a host performed
// against one Memory: allocations, mutations, saves, and restores, each
// with the result it produced. Replaying a session's log against a fresh
// Memory must reproduce every result bit for bit - the memory model is
// deterministic, and the replay command verifies it.
//
// The journal sits entirely outside the memory core: the core has no
// persistent state and no filesystem access. Recording is the caller's
// concern (the scenario runner appends as it executes).
//
// Ordering uses the per-session step INTEGER only, never timestamps, so a
// replay is identical regardless of wall time.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package journal
