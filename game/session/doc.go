// Package session manages game session lifecycle and persistence.
//
// Sessions are held in memory by Manager and optionally persisted through a
// SessionPersistence implementation. A persisted session is a small JSON
// tuple of (collection, level, move count, history text); restoring replays
// the history against a freshly loaded level, so the stored form stays valid
// across engine changes as long as the text encoding does.
package session
