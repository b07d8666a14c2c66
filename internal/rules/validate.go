package rules

import (
	"fmt"
	"regexp"
	"time"

	"github.com/oceanminded/insurance-application-form/internal/models"
)

const (
	minDriverAge    = 16
	minVehicleYear  = 1985
	maxVehicleCount = 3
)

// Canonical zip rule: exactly five digits. The historical client-side
// ZIP+4 variant is not accepted.
var zipCodePattern = regexp.MustCompile(`^\d{5}$`)

// Validate runs the complete rule set against a normalized application and
// returns every violation in stable order: personal info, address, vehicles,
// people. It never panics and never stops at the first failure.
func Validate(app models.Application) Result {
	return ValidateAt(app, time.Now())
}

// ValidateAt is Validate with an explicit evaluation time, which anchors the
// age and vehicle-year boundaries.
func ValidateAt(app models.Application, now time.Time) Result {
	var errs Result

	errs = append(errs, validatePersonalInfo(app, now)...)
	errs = append(errs, validateAddress(app.Address)...)
	errs = append(errs, validateVehicles(app.Vehicles, now)...)
	errs = append(errs, validatePeople(app.People, now)...)

	return errs
}

func validatePersonalInfo(app models.Application, now time.Time) Result {
	var errs Result

	if app.FirstName == "" {
		errs = append(errs, FieldError{"firstName", "First name is required"})
	}
	if app.LastName == "" {
		errs = append(errs, FieldError{"lastName", "Last name is required"})
	}
	if app.DateOfBirth == nil {
		errs = append(errs, FieldError{"dateOfBirth", "Date of birth is required"})
	} else if ageInYears(*app.DateOfBirth, now) < minDriverAge {
		errs = append(errs, FieldError{"dateOfBirth", minAgeMessage()})
	}

	return errs
}

func validateAddress(addr *models.Address) Result {
	if addr == nil {
		return Result{{"address", "Address is required"}}
	}

	var errs Result

	if addr.Street == "" {
		errs = append(errs, FieldError{"address.street", "Street is required"})
	}
	if addr.City == "" {
		errs = append(errs, FieldError{"address.city", "City is required"})
	}
	if addr.State == "" {
		errs = append(errs, FieldError{"address.state", "State is required"})
	}
	if addr.ZipCode == "" {
		errs = append(errs, FieldError{"address.zipCode", "Zip code is required"})
	} else if !zipCodePattern.MatchString(addr.ZipCode) {
		errs = append(errs, FieldError{"address.zipCode", "Invalid zip code format (must be 5 digits)"})
	}

	return errs
}

func validateVehicles(vehicles []models.Vehicle, now time.Time) Result {
	if len(vehicles) == 0 {
		return Result{{"vehicles", "At least one vehicle is required"}}
	}
	if len(vehicles) > maxVehicleCount {
		return Result{{"vehicles", "Maximum of 3 vehicles allowed"}}
	}

	var errs Result

	for i, v := range vehicles {
		if v.VIN == "" {
			errs = append(errs, FieldError{vehicleField(i, "vin"), "VIN is required"})
		}
		if v.Make == "" {
			errs = append(errs, FieldError{vehicleField(i, "make"), "Make is required"})
		}
		if v.Model == "" {
			errs = append(errs, FieldError{vehicleField(i, "model"), "Model is required"})
		}
		if v.Year == nil {
			errs = append(errs, FieldError{vehicleField(i, "year"), "Year is required"})
		} else if *v.Year < minVehicleYear || *v.Year > now.Year()+1 {
			errs = append(errs, FieldError{vehicleField(i, "year"), "Vehicle year must be between 1985 and next year"})
		}
	}

	return errs
}

func validatePeople(people []models.Person, now time.Time) Result {
	var errs Result

	for i, p := range people {
		if p.FirstName == "" {
			errs = append(errs, FieldError{personField(i, "firstName"), "First name is required"})
		}
		if p.LastName == "" {
			errs = append(errs, FieldError{personField(i, "lastName"), "Last name is required"})
		}
		if p.Relationship == "" {
			errs = append(errs, FieldError{personField(i, "relationship"), "Relationship is required"})
		}
		if p.DateOfBirth == nil {
			errs = append(errs, FieldError{personField(i, "dateOfBirth"), "Date of birth is required"})
		} else if ageInYears(*p.DateOfBirth, now) < minDriverAge {
			errs = append(errs, FieldError{personField(i, "dateOfBirth"), minAgeMessage()})
		}
	}

	return errs
}

func minAgeMessage() string {
	return fmt.Sprintf("Must be at least %d years old", minDriverAge)
}

func vehicleField(index int, field string) string {
	return fmt.Sprintf("vehicles[%d].%s", index, field)
}

func personField(index int, field string) string {
	return fmt.Sprintf("people[%d].%s", index, field)
}
