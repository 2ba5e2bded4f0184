package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/battleship-online/game/engine"
	"github.com/wricardo/battleship-online/game/service"
)

var (
	ErrRulesNotFound = errors.New("rules preset not found")
	ErrInvalidRules  = errors.New("invalid rules preset")
)

// Manager handles rule preset loading and caching
type Manager struct {
	rulesDir     string
	defaultRules *engine.Rules
	rules        map[string]*engine.Rules
	mu           sync.RWMutex
}

// NewManager creates a new rules manager. An empty rulesDir means only the
// built-in classic rules are available.
func NewManager(rulesDir string) (*Manager, error) {
	if rulesDir != "" {
		if _, err := os.Stat(rulesDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("rules directory does not exist: %s", rulesDir)
		}
	}

	m := &Manager{
		rulesDir: rulesDir,
		rules:    make(map[string]*engine.Rules),
	}

	if err := m.loadDefaultRules(); err != nil {
		return nil, fmt.Errorf("failed to load default rules: %w", err)
	}

	return m, nil
}

// LoadRules loads a rule preset by name
func (m *Manager) LoadRules(name string) (*engine.Rules, error) {
	m.mu.RLock()
	if rules, exists := m.rules[name]; exists {
		m.mu.RUnlock()
		return rules, nil
	}
	m.mu.RUnlock()

	if m.rulesDir == "" {
		if name == engine.DefaultRules().Name {
			return engine.DefaultRules(), nil
		}
		return nil, ErrRulesNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rules, exists := m.rules[name]; exists {
		return rules, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.rulesDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRulesNotFound
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules engine.Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	if err := engine.ValidateRules(&rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	m.rules[name] = &rules
	return &rules, nil
}

// ListRules returns information about all available presets
func (m *Manager) ListRules() ([]*service.RulesInfo, error) {
	if m.rulesDir == "" {
		return []*service.RulesInfo{rulesInfo("", engine.DefaultRules().Name, engine.DefaultRules())}, nil
	}

	entries, err := os.ReadDir(m.rulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	var presets []*service.RulesInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		rules, err := m.LoadRules(name)
		if err != nil {
			// Skip invalid presets
			continue
		}

		presets = append(presets, rulesInfo(entry.Name(), name, rules))
	}

	return presets, nil
}

// GetDefault returns the default rules
func (m *Manager) GetDefault() *engine.Rules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRules
}

// SetDefault sets the default rules by name
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadRules(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRules = rules
	return nil
}

// loadDefaultRules prefers classic.json, then the first valid preset, then
// the built-in rules.
func (m *Manager) loadDefaultRules() error {
	classic := engine.DefaultRules()

	rules, err := m.LoadRules(classic.Name)
	if err != nil {
		presets, listErr := m.ListRules()
		if listErr != nil || len(presets) == 0 {
			rules = classic
		} else if rules, err = m.LoadRules(presets[0].RulesID); err != nil {
			rules = classic
		}
	}

	m.mu.Lock()
	m.defaultRules = rules
	m.mu.Unlock()
	return nil
}

func rulesInfo(filename, id string, rules *engine.Rules) *service.RulesInfo {
	return &service.RulesInfo{
		Filename:         filename,
		RulesID:          id,
		Name:             rules.Name,
		Description:      rules.Description,
		TurnRule:         string(rules.TurnRule),
		EndWhenFleetSunk: rules.EndWhenFleetSunk,
	}
}
