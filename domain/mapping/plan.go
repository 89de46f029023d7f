package mapping

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is a full import plan: entity sources first, junction sources second.
// The order is a hard dependency — junction rows reference entity business
// keys, and resolution assumes the referenced collections were imported in
// the same run or an earlier one.
type Plan struct {
	Entities  []EntitySource   `yaml:"entities"`
	Junctions []JunctionSource `yaml:"junctions"`
}

// LoadPlan reads and validates a plan from a YAML file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan parses and validates plan YAML.
func ParsePlan(data []byte) (Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Validate checks every source in the plan.
func (p Plan) Validate() error {
	if len(p.Entities) == 0 && len(p.Junctions) == 0 {
		return errors.New("plan defines no sources")
	}
	for _, e := range p.Entities {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	for _, j := range p.Junctions {
		if err := j.Validate(); err != nil {
			return err
		}
	}
	return nil
}
