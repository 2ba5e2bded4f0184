package engine

import "fmt"

// TurnRule decides when the turn passes to the opponent after a shot
type TurnRule string

const (
	// TurnOnMiss keeps the turn with the shooter after a hit.
	TurnOnMiss TurnRule = "miss"
	// TurnEvery passes the turn after every shot.
	TurnEvery TurnRule = "every"
)

// Rules is a game rule preset loaded from JSON
type Rules struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	TurnRule         TurnRule `json:"turn_rule"`
	EndWhenFleetSunk bool     `json:"end_when_fleet_sunk"`
}

// DefaultRules returns the classic preset: the turn passes only on a miss and
// the game never ends on its own.
func DefaultRules() *Rules {
	return &Rules{
		Name:        "classic",
		Description: "Turn passes only on a miss; play continues until a player leaves",
		TurnRule:    TurnOnMiss,
	}
}

// PassesTurn reports whether a shot with the given outcome hands the turn over
func (r *Rules) PassesTurn(hit bool) bool {
	if r.TurnRule == TurnEvery {
		return true
	}
	return !hit
}

// ValidateRules checks a rule preset for correctness
func ValidateRules(rules *Rules) error {
	if rules == nil {
		return fmt.Errorf("rules validation: rules are required")
	}
	if rules.Name == "" {
		return fmt.Errorf("rules validation: name is required")
	}
	switch rules.TurnRule {
	case TurnOnMiss, TurnEvery:
	default:
		return fmt.Errorf("rules validation: turn_rule must be %q or %q, got %q", TurnOnMiss, TurnEvery, rules.TurnRule)
	}
	return nil
}
