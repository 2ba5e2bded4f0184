// Command validate provides a small CLI that validates rule preset JSON files
// in a rules directory (../rules by default, or the first argument). It checks:
//   - JSON structure, rejecting unknown fields
//   - A non-empty name and a known turn_rule ("miss" or "every")
//   - That the preset file name is a usable rules ID
//
// It also checks once that the built-in fleet can be laid out on the grid.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/battleship-online/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validatePreset loads and validates a single rule preset JSON file.
func validatePreset(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var rules engine.Rules
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rules); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateRules(&rules); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	id := strings.TrimSuffix(result.File, ".json")
	if strings.ContainsAny(id, " /\\") {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("File name %q is not a usable rules ID", result.File))
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", rules.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Rules ID: %s", id))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Turn rule: %s", rules.TurnRule))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Ends when fleet sunk: %t", rules.EndWhenFleetSunk))
	}

	return result
}

// validateFleet checks that every catalog ship fits the grid and that the
// whole fleet can be placed without overlap, one ship per row.
func validateFleet(fleet []engine.ShipClass, gridSize int) ValidationResult {
	result := ValidationResult{
		File:   "fleet",
		Valid:  true,
		Errors: []string{},
	}

	if len(fleet) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Fleet is empty")
		return result
	}

	if len(fleet) > gridSize {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Fleet has %d ships but the grid only has %d rows", len(fleet), gridSize))
		return result
	}

	seen := make(map[int]bool)
	var placed []engine.Ship
	cells := 0
	for i, class := range fleet {
		if seen[class.ID] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate ship id %d", class.ID))
			continue
		}
		seen[class.ID] = true

		ship, err := engine.Place(class, engine.Cell{Row: i, Col: 0}, true, placed)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s (length %d) cannot be placed: %v", class.Name, class.Length, err))
			continue
		}
		placed = append(placed, ship)
		cells += class.Length
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", gridSize, gridSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Ships: %d", len(fleet)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Ship cells: %d of %d", cells, gridSize*gridSize))
	}

	return result
}

func printResult(result ValidationResult) bool {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Errors {
			fmt.Println("  " + info)
		}
		return true
	}

	fmt.Println("❌ INVALID")
	for _, err := range result.Errors {
		if !strings.HasPrefix(err, "✓") {
			fmt.Println("  ❌ " + err)
		}
	}
	return false
}

// main validates the fleet and every *.json preset in the rules directory,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	rulesDir := "../rules"
	if len(os.Args) > 1 {
		rulesDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(rulesDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding rule presets: %v\n", err)
		os.Exit(1)
	}

	allValid := printResult(validateFleet(engine.Fleet, engine.GridSize))
	for _, file := range files {
		if !printResult(validatePreset(file)) {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if len(files) == 0 {
		fmt.Printf("⚠️  No rule presets found in %s\n", rulesDir)
	}
	if allValid {
		fmt.Println("✅ All rule presets are valid!")
	} else {
		fmt.Println("❌ Some rule presets have errors")
		os.Exit(1)
	}
}
