// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

// LoadWorkflowFile reads a workflow definition from a YAML file. The
// file shape mirrors types.WorkflowConfig:
//
//	rounds:
//	  - name: Initial Screen
//	    agents:
//	      - name: Screener
//	        type: TitleAbstractReviewer
//	        inclusion_criteria: "..."
//	  - name: Expert Review
//	    filter: {type: included_previous}
//	    agents: [...]
//
// The loaded workflow is validated before being returned.
func LoadWorkflowFile(path string) (types.WorkflowConfig, error) {
	var cfg types.WorkflowConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading workflow file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing workflow file %s: %w", path, err)
	}
	if err := ValidateWorkflow(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveWorkflowFile writes a workflow definition to a YAML file, e.g. to
// seed a template the user then edits.
func SaveWorkflowFile(path string, cfg types.WorkflowConfig) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling workflow: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
