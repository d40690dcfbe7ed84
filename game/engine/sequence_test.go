package engine

import "testing"

func TestMoveSequencePlaysStepwise(t *testing.T) {
	lm := loadTestMap(t,
		"######",
		"#@   #",
		"# $  #",
		"# .  #",
		"######",
	)

	m := NewMove(1, 1)
	m.Step(2, 1)
	m.Push(2, 2)
	m.Finish()

	seq := NewMoveSequence(m, lm)
	if !seq.Playing() {
		t.Fatal("Expected the sequence to start playing")
	}

	// First tick: the step.
	if !seq.Next() {
		t.Fatal("Expected more displacements after the first tick")
	}
	if lm.XPos() != 2 || lm.YPos() != 1 {
		t.Errorf("Expected token at (2,1) after one tick, got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if lm.Map().HasObject(2, 3) {
		t.Error("Expected the object not pushed yet")
	}

	// Second tick: the push, and the sequence ends.
	if seq.Next() {
		t.Error("Expected the final tick to report no more displacements")
	}
	if lm.XPos() != 2 || lm.YPos() != 2 {
		t.Errorf("Expected token at (2,2), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if !lm.Map().HasObject(2, 3) {
		t.Error("Expected the object pushed to (2,3)")
	}
	if !seq.Exhausted() {
		t.Error("Expected the sequence exhausted")
	}
	if seq.Failed() {
		t.Error("Expected a clean finish")
	}

	// Further ticks change nothing.
	if seq.Next() {
		t.Error("Expected Next on an exhausted sequence to return false")
	}
	if lm.TotalMoves() != 1 || lm.TotalPushes() != 1 {
		t.Errorf("Expected 1 move 1 push, got %d and %d", lm.TotalMoves(), lm.TotalPushes())
	}
}

func TestMoveSequenceEmptyMove(t *testing.T) {
	lm := pushScenario(t)

	m := NewMove(1, 1)
	m.Finish()
	seq := NewMoveSequence(m, lm)

	if !seq.Exhausted() {
		t.Error("Expected an empty move to exhaust immediately")
	}
	if seq.Next() {
		t.Error("Expected Next to be a no-op")
	}
}

func TestMoveSequenceAbandonMidway(t *testing.T) {
	lm := loadTestMap(t,
		"#######",
		"#@  $.#",
		"#######",
	)

	m := NewMove(1, 1)
	m.Step(2, 1)
	m.Step(3, 1)
	m.Push(4, 1)
	m.Finish()

	seq := NewMoveSequence(m, lm)
	seq.Next()
	// Drop the sequence after one step: the map is mid-move but valid.
	if lm.XPos() != 2 || lm.YPos() != 1 {
		t.Errorf("Expected token at (2,1), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if !lm.Map().HasObject(4, 1) {
		t.Error("Expected the object untouched at (4,1)")
	}
	if lm.TotalMoves() != 1 || lm.TotalPushes() != 0 {
		t.Errorf("Expected 1 move 0 pushes, got %d and %d", lm.TotalMoves(), lm.TotalPushes())
	}

	// A fresh walk from the intermediate position still works.
	var pf PathFinder
	if pf.Search(lm.Map(), 1, 1) == nil {
		t.Error("Expected the intermediate state to support a new search")
	}
}

func TestMoveSequenceFailsOnTamperedMap(t *testing.T) {
	lm := loadTestMap(t,
		"#######",
		"#@  $.#",
		"#######",
	)

	m := NewMove(1, 1)
	m.Step(2, 1)
	m.Step(3, 1)
	m.Finish()

	seq := NewMoveSequence(m, lm)
	// Move the token out from under the sequence.
	if !lm.Step(2, 1) {
		t.Fatal("Expected the tampering step to succeed")
	}
	if !seq.Next() {
		t.Fatal("Expected the first tick to still apply")
	}
	// Displacements are relative, so the shifted path now runs into the
	// object and the sequence reports the failure.
	if seq.Next() {
		t.Error("Expected the sequence to stop")
	}
	if !seq.Failed() || !seq.Exhausted() {
		t.Error("Expected the sequence to end failed and exhausted")
	}
}
