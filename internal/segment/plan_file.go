package segment

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WritePlan writes a cut plan to a YAML file
func WritePlan(plan *CutPlan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPlan reads a cut plan from a YAML file
func ReadPlan(path string) (*CutPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan CutPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	return &plan, nil
}
