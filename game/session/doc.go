// Package session manages game session lifecycle and snapshot
// persistence.
//
// Sessions are keyed by puzzle date: one session exists per calendar day,
// created fresh or restored from a persisted snapshot. Snapshots are
// written after every state change as fire-and-forget side effects; a
// failed write is logged and never blocks or corrupts in-memory state.
// A snapshot that fails to parse, carries a different puzzle date, or
// references letters not present in the active puzzle is discarded
// wholesale and a fresh session is created in its place.
package session
