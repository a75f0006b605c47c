package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/vocab"
)

// Employee is the slice of the employee record the engine reads: identity, category and
// the work cycle reference.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Category     Category
	WorkCycleID  *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category string

const (
	CategoryFullTime Category = "FULL_TIME"
	CategoryPartTime Category = "PART_TIME"
	CategoryContract Category = "CONTRACT"
	CategoryIntern   Category = "INTERN"
)

var CategoryValues = []Category{CategoryFullTime, CategoryPartTime, CategoryContract, CategoryIntern}

var categoryVocab = vocab.NewTable("employee category", map[string][]string{
	"FULL_TIME": {"TEMPS_PLEIN", "CDI", "PERMANENT"},
	"PART_TIME": {"TEMPS_PARTIEL"},
	"CONTRACT":  {"CONTRAT", "CDD"},
	"INTERN":    {"STAGIAIRE", "INTERNSHIP"},
})

func ParseCategory(raw string) (Category, error) {
	s, err := categoryVocab.Normalize(raw)
	if err != nil {
		return "", err
	}
	return Category(s), nil
}
