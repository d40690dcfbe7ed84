package session_test

import (
	"errors"
	"testing"

	"github.com/KDE/skladnik/game/session"
)

func newPersistentManager(t *testing.T) (*session.Manager, *session.FilePersistence) {
	t.Helper()
	fp, err := session.NewFilePersistence(t.TempDir(), newTestCollectionManager())
	if err != nil {
		t.Fatalf("NewFilePersistence() error = %v", err)
	}
	return session.NewManagerWithPersistence(fp), fp
}

func TestManagerAutoSaveOnCreate(t *testing.T) {
	mgr, fp := newPersistentManager(t)

	if _, err := mgr.Create("auto", corridorCollection()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !fp.Exists("auto") {
		t.Error("session not persisted on create")
	}
}

func TestManagerReloadAfterEviction(t *testing.T) {
	mgr, _ := newPersistentManager(t)

	sess, err := mgr.Create("evict", hallCollection())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !sess.Game.WalkTo(3, 1) {
		t.Fatal("walk not committed")
	}
	sess.Game.FinishPlayback()
	if err := mgr.Save("evict"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := mgr.DeleteFromMemory("evict"); err != nil {
		t.Fatalf("DeleteFromMemory() error = %v", err)
	}
	if mgr.Count() != 0 {
		t.Fatalf("Count() = %d after eviction, want 0", mgr.Count())
	}

	// Get falls through to disk and replays the stored history.
	restored, err := mgr.Get("evict")
	if err != nil {
		t.Fatalf("Get() after eviction: error = %v", err)
	}
	if restored.Game.LevelMap().TotalMoves() != 2 {
		t.Errorf("restored moves = %d, want 2", restored.Game.LevelMap().TotalMoves())
	}
	if restored.Game.LevelMap().XPos() != 3 {
		t.Errorf("restored token x = %d, want 3", restored.Game.LevelMap().XPos())
	}
}

func TestManagerDeleteRemovesFile(t *testing.T) {
	mgr, fp := newPersistentManager(t)

	if _, err := mgr.Create("both", corridorCollection()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mgr.Delete("both"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if fp.Exists("both") {
		t.Error("session file survived Delete()")
	}
	if _, err := mgr.Get("both"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Get() after delete: error = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerLoadPersistedSessions(t *testing.T) {
	fp, err := session.NewFilePersistence(t.TempDir(), newTestCollectionManager())
	if err != nil {
		t.Fatalf("NewFilePersistence() error = %v", err)
	}

	seed := session.NewManagerWithPersistence(fp)
	for _, id := range []string{"one", "two"} {
		if _, err := seed.Create(id, corridorCollection()); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	// A fresh manager over the same directory picks both sessions up.
	mgr := session.NewManagerWithPersistence(fp)
	if err := mgr.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions() error = %v", err)
	}
	if mgr.Count() != 2 {
		t.Errorf("Count() = %d after load, want 2", mgr.Count())
	}
}

func TestManagerSaveAllSessions(t *testing.T) {
	mgr, fp := newPersistentManager(t)

	for _, id := range []string{"s1", "s2"} {
		if _, err := mgr.Create(id, corridorCollection()); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	if err := mgr.SaveAllSessions(); err != nil {
		t.Fatalf("SaveAllSessions() error = %v", err)
	}
	for _, id := range []string{"s1", "s2"} {
		if !fp.Exists(id) {
			t.Errorf("session %s not on disk after SaveAllSessions", id)
		}
	}
}
