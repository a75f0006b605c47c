package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type seedEmployee struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Category     string  `json:"category"`
	WorkCycleID  *string `json:"work_cycle_id,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

// LoadEmployees seeds employees from a JSON array. Categories accept either vocabulary
// and active defaults to true.
func (s *Store) LoadEmployees(r io.Reader, now time.Time) (int, error) {
	var seeds []seedEmployee
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("failed to decode employee seed: %w", err)
	}

	for i, seed := range seeds {
		if validator.IsEmpty(seed.ID) || validator.IsEmpty(seed.FullName) {
			return 0, fmt.Errorf("employee seed %d: id and full_name are required", i)
		}
		category := employee.CategoryFullTime
		if seed.Category != "" {
			c, err := employee.ParseCategory(seed.Category)
			if err != nil {
				return 0, fmt.Errorf("employee seed %d: %w", i, err)
			}
			category = c
		}
		active := seed.Active == nil || *seed.Active

		s.PutEmployee(employee.Employee{
			ID:           seed.ID,
			EmployeeCode: seed.EmployeeCode,
			FullName:     seed.FullName,
			Category:     category,
			WorkCycleID:  seed.WorkCycleID,
			Active:       active,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return len(seeds), nil
}
