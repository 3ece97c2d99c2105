// Package dataset loads employee records from a JSON file.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/helix-hr/staffrag/internal/domain/employee"
)

// file is the on-disk dataset layout.
type file struct {
	Employees []employee.Employee `json:"employees"`
}

// Load reads and validates the employee dataset. Records without an ID
// get a positional one. Any invalid record aborts the load.
func Load(path string) ([]employee.Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(f.Employees) == 0 {
		return nil, fmt.Errorf("dataset %s has no employees", path)
	}

	seen := make(map[string]bool, len(f.Employees))
	for i := range f.Employees {
		e := &f.Employees[i]
		if e.ID == "" {
			e.ID = fmt.Sprintf("emp-%d", i+1)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true

		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, e.ID, err)
		}
	}

	return f.Employees, nil
}
