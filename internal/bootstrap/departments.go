package bootstrap

import (
	"context"
	"fmt"

	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/nlp"
	"smartgriev/backend/internal/storage"

	"github.com/lib/pq"
)

// DepartmentsFromRules converts classifier rules to department rows.
func DepartmentsFromRules(rules []nlp.Rule) []models.Department {
	departments := make([]models.Department, 0, len(rules))
	for _, r := range rules {
		departments = append(departments, models.Department{
			Name:            r.Department,
			Code:            r.Code,
			Keywords:        pq.StringArray(append([]string(nil), r.Keywords...)),
			DefaultPriority: r.DefaultUrgency,
		})
	}
	return departments
}

// RulesFromDepartments converts stored departments back to classifier rules.
// With no departments the built-in rules are used.
func RulesFromDepartments(departments []models.Department) []nlp.Rule {
	if len(departments) == 0 {
		return nlp.DefaultRules()
	}
	rules := make([]nlp.Rule, 0, len(departments))
	for _, d := range departments {
		rules = append(rules, nlp.Rule{
			Department:     d.Name,
			Code:           d.Code,
			Keywords:       []string(d.Keywords),
			DefaultUrgency: d.DefaultPriority,
		})
	}
	return rules
}

// SeedDepartments writes the built-in departments. Unless force is set it
// does nothing when departments already exist.
func SeedDepartments(ctx context.Context, store storage.Storage, force bool) error {
	if !force {
		existing, err := store.GetDepartments(ctx)
		if err != nil {
			return fmt.Errorf("failed to load departments: %w", err)
		}
		if len(existing) > 0 {
			return nil
		}
	}
	if err := store.SaveDepartments(ctx, DepartmentsFromRules(nlp.DefaultRules())); err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}
	return nil
}
