package draft

import "github.com/mishcolife/catalogadmin/internal/domain/entities"

// IngredientPatch updates the members of a composition entry that are set
type IngredientPatch struct {
	Name     *string
	Strength *string
}

// Apply implements fieldgroup.Patch
func (p IngredientPatch) Apply(e entities.Ingredient) entities.Ingredient {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Strength != nil {
		e.Strength = *p.Strength
	}
	return e
}

// MechanismPatch updates the members of a mechanism entry that are set
type MechanismPatch struct {
	Drug        *string
	Description *string
}

// Apply implements fieldgroup.Patch
func (p MechanismPatch) Apply(e entities.Mechanism) entities.Mechanism {
	if p.Drug != nil {
		e.Drug = *p.Drug
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	return e
}

// String returns a pointer to s, for building patches
func String(s string) *string {
	return &s
}
