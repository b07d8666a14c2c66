// Package rules is the single canonical rule set for insurance applications:
// schema normalization, field/record validation and quote calculation. Both
// the HTTP layer and any interactive client consume this package; the rules
// are defined nowhere else.
package rules

import (
	"fmt"
	"strings"
	"time"
)

// FieldError is one rule violation, addressed by a dot/bracket field path
// such as "vehicles[1].vin" or "people[0].dateOfBirth".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the ordered collection of violations for one application.
// An empty Result means the application is valid for quoting.
type Result []FieldError

// Valid reports whether the result carries no violations.
func (r Result) Valid() bool { return len(r) == 0 }

// ValidationFailedError is returned when an operation that requires a valid
// application (quoting) is invoked on an invalid one. It carries the complete
// violation list, never a partial one.
type ValidationFailedError struct {
	Errors Result
}

// Error renders the legacy wire form: a "Validation failed: " prefix followed
// by "field: message" pairs joined with "; ".
func (e *ValidationFailedError) Error() string {
	pairs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		pairs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "Validation failed: " + strings.Join(pairs, "; ")
}

// ageInYears computes age by calendar-field subtraction: the year difference,
// minus one when today's (month, day) precedes the birth (month, day). This
// exact method defines the 16-year boundary, including its behaviour for
// February 29 birthdays, and must not be replaced with day-count division.
func ageInYears(birth, today time.Time) int {
	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years
}
