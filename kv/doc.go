// Package kv provides the key-value byte stores that session records are persisted in.
//
// Three backends share the [Store] contract: [MemoryStore] (process-local, tests and
// ephemeral servers), [RedisStore] (go-redis), and [SQLiteStore] (a single-file database
// that survives process restarts without external services).
//
// # What this package must NOT do
//
//   - Interpret stored bytes. Encoding belongs to the session package.
//   - Return redis.Nil or sql.ErrNoRows to callers; absence is always [ErrNotFound].
package kv
