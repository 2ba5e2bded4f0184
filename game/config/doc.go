// Package config provides rule preset management for Battleship Online.
//
// The config package handles:
//   - Loading rule presets from JSON files
//   - Preset validation
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
//	{
//	  "name": "classic",
//	  "description": "Turn passes only on a miss",
//	  "turn_rule": "miss",
//	  "end_when_fleet_sunk": false
//	}
//
// turn_rule is "miss" (the shooter keeps the turn after a hit) or "every"
// (the turn passes after every shot). end_when_fleet_sunk enables game-over
// detection once every cell of a fleet has been hit.
//
// Usage:
//
//	manager, err := config.NewManager("rules")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := manager.SetDefault("alternating"); err != nil {
//		log.Fatal(err)
//	}
//	rules := manager.GetDefault()
//
// When no directory is configured the manager serves only the built-in
// classic preset.
package config
