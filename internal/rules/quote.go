package rules

import (
	"time"

	"github.com/oceanminded/insurance-application-form/internal/models"
)

// Quote pricing factors (monthly premium, currency units).
const (
	basePrice      = 1000
	perVehicleRate = 500
	perPersonRate  = 250
)

// Quote computes the premium for a valid application:
//
//	price = 1000 + 500*vehicles + 250*people
//
// The application must validate cleanly first; quoting an invalid application
// returns a *ValidationFailedError carrying the full violation list and no
// price. The calculator does no currency rounding.
func Quote(app models.Application) (float64, error) {
	return QuoteAt(app, time.Now())
}

// QuoteAt is Quote with an explicit evaluation time for the validation
// precondition.
func QuoteAt(app models.Application, now time.Time) (float64, error) {
	if errs := ValidateAt(app, now); !errs.Valid() {
		return 0, &ValidationFailedError{Errors: errs}
	}
	return basePrice +
		float64(len(app.Vehicles))*perVehicleRate +
		float64(len(app.People))*perPersonRate, nil
}
