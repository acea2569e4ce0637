// Package project persists cutting-run definitions. Run files are JSON or
// YAML by extension and carry everything one run needs: items, stocks, kerf
// and the optimizer variant.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fabworks/barcut/internal/model"
)

// RunSpec defines one optimization run.
type RunSpec struct {
	Name   string            `json:"name" yaml:"name"`
	Mode   model.Mode        `json:"mode" yaml:"mode"`
	Kerf   int               `json:"kerf" yaml:"kerf"`
	Items  []model.Item      `json:"items" yaml:"items"`
	Stocks []model.StockType `json:"stocks" yaml:"stocks"`
}

// NewRunSpec returns an empty single-stock run definition.
func NewRunSpec(name string) RunSpec {
	return RunSpec{Name: name, Mode: model.ModeSingleStock}
}

// Validate checks the structural rules the optimizer assumes have been
// enforced upstream: unique names, a coherent mode/stock combination, and
// per-entry invariants.
func (rs RunSpec) Validate() error {
	if rs.Mode != model.ModeSingleStock && rs.Mode != model.ModeMultiStock {
		return fmt.Errorf("unknown mode %q", rs.Mode)
	}
	if len(rs.Items) == 0 {
		return fmt.Errorf("run has no items")
	}
	if len(rs.Stocks) == 0 {
		return fmt.Errorf("run has no stocks")
	}
	if rs.Mode == model.ModeSingleStock && len(rs.Stocks) != 1 {
		return fmt.Errorf("single-stock run must define exactly one stock, got %d", len(rs.Stocks))
	}

	itemNames := make(map[string]bool)
	for _, it := range rs.Items {
		if it.Name == "" {
			return fmt.Errorf("item with empty name")
		}
		if itemNames[it.Name] {
			return fmt.Errorf("duplicate item name %q", it.Name)
		}
		itemNames[it.Name] = true
		if err := it.Validate(); err != nil {
			return err
		}
	}

	stockNames := make(map[string]bool)
	for _, s := range rs.Stocks {
		if s.Name == "" {
			return fmt.Errorf("stock with empty name")
		}
		if stockNames[s.Name] {
			return fmt.Errorf("duplicate stock name %q", s.Name)
		}
		stockNames[s.Name] = true
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SaveRunSpec writes the run to the given path, JSON or YAML depending on
// the file extension. Parent directories are created as needed.
func SaveRunSpec(path string, spec RunSpec) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAMLPath(path) {
		data, err = yaml.Marshal(spec)
	} else {
		data, err = json.MarshalIndent(spec, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadRunSpec reads and validates a run file, JSON or YAML by extension.
func LoadRunSpec(path string) (RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunSpec{}, err
	}

	var spec RunSpec
	if isYAMLPath(path) {
		err = yaml.Unmarshal(data, &spec)
	} else {
		err = json.Unmarshal(data, &spec)
	}
	if err != nil {
		return RunSpec{}, fmt.Errorf("cannot parse run file %s: %w", path, err)
	}
	if spec.Mode == "" {
		spec.Mode = model.ModeSingleStock
	}
	if err := spec.Validate(); err != nil {
		return RunSpec{}, fmt.Errorf("invalid run file %s: %w", path, err)
	}
	return spec, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
