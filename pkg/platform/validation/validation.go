// Package validation collects the field validators shared by every entity
// constructor. Checks are pure and fail-fast: the first violated rule wins.
package validation

import (
	"strings"
	"time"

	dErrors "aikifed/pkg/domain-errors"
)

// RequiredString rejects empty or all-whitespace values.
func RequiredString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return dErrors.Newf(dErrors.CodeValidation, "%s cannot be empty", field)
	}
	return nil
}

// Email applies the intentionally shallow email rule: required and must
// contain an "@". Full RFC validation is out of scope.
func Email(field, value string) error {
	if err := RequiredString(field, value); err != nil {
		return err
	}
	if !strings.Contains(value, "@") {
		return dErrors.Newf(dErrors.CodeValidation, "%s is not a valid email", field)
	}
	return nil
}

// NonNegative rejects negative money amounts. Zero is accepted.
func NonNegative(field string, value float64) error {
	if value < 0 {
		return dErrors.Newf(dErrors.CodeValidation, "%s cannot be negative", field)
	}
	return nil
}

// NonNegativeInt rejects negative capacity fields.
func NonNegativeInt(field string, value int) error {
	if value < 0 {
		return dErrors.Newf(dErrors.CodeValidation, "%s cannot be negative", field)
	}
	return nil
}

// DateOrder rejects a start date after the end date. Unset (zero) dates are
// allowed; ordering is only checked when both sides are present.
func DateOrder(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if start.After(end) {
		return dErrors.New(dErrors.CodeValidation, "start date must be before end date")
	}
	return nil
}
