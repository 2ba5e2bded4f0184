package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/battleship-online/game/engine"
)

func writePreset(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}
	return path
}

func TestValidatePreset_Valid(t *testing.T) {
	path := writePreset(t, "classic.json", `{
		"name": "classic",
		"description": "Turn passes only on a miss",
		"turn_rule": "miss",
		"end_when_fleet_sunk": false
	}`)

	result := validatePreset(path)
	if !result.Valid {
		t.Fatalf("Expected valid preset, but got errors: %v", result.Errors)
	}

	if result.File != "classic.json" {
		t.Errorf("Expected file classic.json, got %s", result.File)
	}

	if !contains(strings.Join(result.Errors, "\n"), "✓ Turn rule: miss") {
		t.Errorf("Expected turn rule info, got %v", result.Errors)
	}
}

func TestValidatePreset_InvalidJSON(t *testing.T) {
	path := writePreset(t, "broken.json", `{"name": "broken",`)

	result := validatePreset(path)
	if result.Valid {
		t.Error("Expected invalid result for malformed JSON")
	}

	if len(result.Errors) == 0 || !contains(result.Errors[0], "Invalid JSON") {
		t.Errorf("Expected 'Invalid JSON' error, got %v", result.Errors)
	}
}

func TestValidatePreset_UnknownField(t *testing.T) {
	path := writePreset(t, "typo.json", `{"name": "typo", "turn_rule": "miss", "end_when_sunk": true}`)

	result := validatePreset(path)
	if result.Valid {
		t.Error("Expected invalid result for unknown field")
	}
}

func TestValidatePreset_MissingFile(t *testing.T) {
	result := validatePreset(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}

	if len(result.Errors) == 0 || !contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidatePreset_BadFields(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"missing name", "noname.json", `{"turn_rule": "miss"}`, "name is required"},
		{"unknown turn rule", "odd.json", `{"name": "odd", "turn_rule": "sometimes"}`, "turn_rule must be"},
		{"empty turn rule", "empty.json", `{"name": "empty"}`, "turn_rule must be"},
		{"file name with space", "to the end.json", `{"name": "x", "turn_rule": "miss"}`, "not a usable rules ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validatePreset(writePreset(t, tt.file, tt.content))
			if result.Valid {
				t.Fatal("Expected invalid result")
			}
			if !contains(strings.Join(result.Errors, "\n"), tt.wantErr) {
				t.Errorf("Expected %q in errors, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestValidateFleet_Builtin(t *testing.T) {
	result := validateFleet(engine.Fleet, engine.GridSize)
	if !result.Valid {
		t.Fatalf("Expected built-in fleet to be valid, got %v", result.Errors)
	}

	if !contains(strings.Join(result.Errors, "\n"), "✓ Ship cells: 17 of 100") {
		t.Errorf("Expected 17 ship cells, got %v", result.Errors)
	}
}

func TestValidateFleet_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		fleet    []engine.ShipClass
		gridSize int
		wantErr  string
	}{
		{"empty", nil, 10, "Fleet is empty"},
		{"ship too long", []engine.ShipClass{{ID: 1, Name: "Leviathan", Length: 11}}, 10, "Leviathan (length 11) cannot be placed"},
		{"duplicate id", []engine.ShipClass{{ID: 1, Name: "A", Length: 2}, {ID: 1, Name: "B", Length: 2}}, 10, "Duplicate ship id 1"},
		{"too many ships", engine.Fleet, 3, "only has 3 rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateFleet(tt.fleet, tt.gridSize)
			if result.Valid {
				t.Fatal("Expected invalid result")
			}
			if !contains(strings.Join(result.Errors, "\n"), tt.wantErr) {
				t.Errorf("Expected %q in errors, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestRepositoryPresets(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "rules", "*.json"))
	if err != nil {
		t.Fatalf("Failed to list presets: %v", err)
	}
	if len(files) == 0 {
		t.Skip("Skipping test - rules directory not found")
	}

	for _, file := range files {
		if result := validatePreset(file); !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
