// Package store implements the storefront Store backends: an in-memory map,
// a SQLite key/value table, an atomically rewritten JSONL file, and Redis.
package store
