package main

import (
	"testing"

	"github.com/KDE/skladnik/game/collection"
	"github.com/KDE/skladnik/game/engine"
)

func TestGridPoint(t *testing.T) {
	point := GridPoint{X: 3, Y: 5}

	if point.X != 3 {
		t.Errorf("Expected X 3, got %d", point.X)
	}

	if point.Y != 5 {
		t.Errorf("Expected Y 5, got %d", point.Y)
	}
}

func TestCountObjects(t *testing.T) {
	g, err := engine.ParseGrid([]string{
		"######",
		"#@$ .#",
		"# $*.#",
		"######",
	})
	if err != nil {
		t.Fatalf("ParseGrid failed: %v", err)
	}

	// Two loose objects plus one already on a goal
	if got := countObjects(g); got != 3 {
		t.Errorf("countObjects = %d, expected 3", got)
	}
}

func TestCornerDeadlocks(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		expected []GridPoint
	}{
		{
			name: "object in corner",
			rows: []string{
				"#####",
				"#$@ #",
				"#  .#",
				"#####",
			},
			expected: []GridPoint{{1, 1}},
		},
		{
			name: "object on goal in corner is fine",
			rows: []string{
				"#####",
				"#*@ #",
				"#  $#",
				"#  .#",
				"#####",
			},
			expected: nil,
		},
		{
			name: "free object in open floor",
			rows: []string{
				"#####",
				"#   #",
				"# $ #",
				"# @.#",
				"#####",
			},
			expected: nil,
		},
		{
			name: "object against one wall only",
			rows: []string{
				"######",
				"#@$ .#",
				"######",
			},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := engine.ParseGrid(tt.rows)
			if err != nil {
				t.Fatalf("ParseGrid failed: %v", err)
			}

			got := cornerDeadlocks(g)
			if len(got) != len(tt.expected) {
				t.Fatalf("cornerDeadlocks = %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("point %d = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestAnalyzeCollection(t *testing.T) {
	col := collection.New("test", "Test Pack", [][]string{
		{
			"#####",
			"#@$.#",
			"#####",
		},
		{
			"######",
			"#    #",
			"# @$.#",
			"######",
		},
	})

	// Test that analyzeCollection doesn't panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeCollection panicked: %v", r)
		}
	}()

	analyzeCollection(col)
}

func TestAnalyzeCollection_BrokenLevel(t *testing.T) {
	// The second level has two pushers and must be reported, not crash the run
	col := collection.New("bad", "Bad Pack", [][]string{
		{
			"#####",
			"#@$.#",
			"#####",
		},
		{
			"#####",
			"#@@$#",
			"#..##",
			"#####",
		},
	})

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeCollection panicked with broken level: %v", r)
		}
	}()

	analyzeCollection(col)
}

func TestAnalyzeCollection_BuiltIns(t *testing.T) {
	mgr, err := collection.NewManager("")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	infos, err := mgr.ListCollections()
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(infos) == 0 {
		t.Fatal("Expected built-in collections")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeCollection panicked on built-ins: %v", r)
		}
	}()

	for _, info := range infos {
		col, err := mgr.LoadCollection(info.ID)
		if err != nil {
			t.Fatalf("LoadCollection(%s) failed: %v", info.ID, err)
		}
		analyzeCollection(col)
	}
}
