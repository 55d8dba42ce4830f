package draft

import (
	"math"
	"strconv"
	"strings"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/editor/fieldgroup"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// Violation is one failed check on a draft field
type Violation struct {
	Field   string
	Message string
}

// ValidationResult lists the violations found by Validate, in field order
type ValidationResult struct {
	Violations []Violation
}

// OK reports whether no violations were found
func (r ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

// Fields returns the identifiers of the violated fields
func (r ValidationResult) Fields() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Field
	}
	return out
}

// Message returns the message for field, or "" if it passed
func (r ValidationResult) Message(field string) string {
	for _, v := range r.Violations {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// Err converts the result to a validation error, or nil when it passed
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	return apperrors.NewValidationError("please fill all required fields", r.Fields()...)
}

func (r *ValidationResult) add(field, message string) {
	r.Violations = append(r.Violations, Violation{Field: field, Message: message})
}

var requiredProductFields = []struct {
	field   string
	message string
}{
	{entities.FieldProductName, "product name is required"},
	{entities.FieldGenericName, "generic name is required"},
	{entities.FieldStrength, "strength is required"},
	{entities.FieldCategory, "category is required"},
}

func validateProduct(f entities.ProductFields, uses []string) ValidationResult {
	var res ValidationResult
	for _, req := range requiredProductFields {
		v, _ := f.Get(req.field)
		if strings.TrimSpace(v) == "" {
			res.add(req.field, req.message)
		}
	}

	if mrp := strings.TrimSpace(f.MRP); mrp != "" {
		n, err := strconv.ParseFloat(mrp, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			res.add(entities.FieldMRP, "mrp must be a non-negative number")
		}
	}

	hasUse := false
	for _, u := range uses {
		if !fieldgroup.BlankString(u) {
			hasUse = true
			break
		}
	}
	if !hasUse {
		res.add(entities.FieldUses, "at least one use is required")
	}
	return res
}
