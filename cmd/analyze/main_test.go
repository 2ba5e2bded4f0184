package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wricardo/battleship-online/game/engine"
)

func TestPlacements(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		expected int
	}{
		{"carrier", 5, 120},
		{"battleship", 4, 140},
		{"cruiser", 3, 160},
		{"destroyer", 2, 180},
		{"too long", engine.GridSize + 1, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := len(placements(engine.ShipClass{ID: 9, Name: test.name, Length: test.length}))
			if got != test.expected {
				t.Errorf("placements(len %d) = %d, expected %d", test.length, got, test.expected)
			}
		})
	}
}

func TestAnalyzeFleet(t *testing.T) {
	stats, heat := analyzeFleet(engine.Fleet)

	if len(stats) != len(engine.Fleet) {
		t.Fatalf("Expected %d stats, got %d", len(engine.Fleet), len(stats))
	}

	carrier := stats[0]
	if carrier.Horizontal != 60 || carrier.Vertical != 60 {
		t.Errorf("Expected carrier 60/60, got %d/%d", carrier.Horizontal, carrier.Vertical)
	}

	// A corner is covered by exactly one horizontal and one vertical
	// position of every ship.
	if heat[0][0] != 2*len(engine.Fleet) {
		t.Errorf("Expected corner coverage %d, got %d", 2*len(engine.Fleet), heat[0][0])
	}

	// The grid is symmetric
	last := engine.GridSize - 1
	if heat[0][0] != heat[last][last] || heat[0][last] != heat[last][0] {
		t.Error("Expected corners to have equal coverage")
	}
}

func TestHottest(t *testing.T) {
	heat := [][]int{
		{1, 3, 1},
		{3, 2, 0},
		{0, 1, 1},
	}

	cells, count := hottest(heat)
	if count != 3 {
		t.Errorf("Expected max 3, got %d", count)
	}
	if len(cells) != 2 || cells[0] != (engine.Cell{Row: 0, Col: 1}) || cells[1] != (engine.Cell{Row: 1, Col: 0}) {
		t.Errorf("Unexpected hottest cells: %v", cells)
	}
}

func TestHottest_FleetCentre(t *testing.T) {
	_, heat := analyzeFleet(engine.Fleet)

	cells, _ := hottest(heat)
	for _, c := range cells {
		if c.Row == 0 || c.Col == 0 || c.Row == engine.GridSize-1 || c.Col == engine.GridSize-1 {
			t.Errorf("Edge cell %s should not be among the hottest", c)
		}
	}
}

func TestReport(t *testing.T) {
	stats, heat := analyzeFleet(engine.Fleet)

	var buf bytes.Buffer
	report(&buf, stats, heat)
	out := buf.String()

	for _, want := range []string{
		"=== Fleet on a 10x10 grid ===",
		"Carrier",
		"120 placements",
		"Ship cells: 17 of 100",
		"=== Coverage heat map ===",
		"Hottest cells",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in report, got:\n%s", want, out)
		}
	}

	if strings.Contains(out, "WARNING") {
		t.Errorf("Built-in fleet should place everywhere, got:\n%s", out)
	}
}
