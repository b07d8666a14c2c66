package rules

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oceanminded/insurance-application-form/internal/models"
)

func appWithCounts(vehicles, people int) models.Application {
	app := validApplication()
	app.Vehicles = nil
	for i := 0; i < vehicles; i++ {
		app.Vehicles = append(app.Vehicles, validVehicle())
	}
	for i := 0; i < people; i++ {
		app.People = append(app.People, models.Person{
			FirstName: "Sam", LastName: "Doe",
			Relationship: models.RelationshipOther,
			DateOfBirth:  datePtr(1999, time.May, 2),
		})
	}
	return app
}

func TestQuoteFormula(t *testing.T) {
	tests := []struct {
		name     string
		vehicles int
		people   int
		want     float64
	}{
		{"one vehicle, no people", 1, 0, 1500},
		{"three vehicles, two people", 3, 2, 3000},
		{"two vehicles, one person", 2, 1, 2250},
		{"one vehicle, three people", 1, 3, 2250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := QuoteAt(appWithCounts(tt.vehicles, tt.people), testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if price != tt.want {
				t.Errorf("expected %v, got %v", tt.want, price)
			}
			if price < 1000 {
				t.Errorf("a valid application never prices below the base: %v", price)
			}
		})
	}
}

func TestQuoteIsDeterministic(t *testing.T) {
	app := appWithCounts(2, 2)
	first, err1 := QuoteAt(app, testNow)
	second, err2 := QuoteAt(app, testNow)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v %v", err1, err2)
	}
	if first != second {
		t.Fatalf("expected identical prices, got %v vs %v", first, second)
	}
}

func TestQuoteRejectsInvalidApplication(t *testing.T) {
	app := validApplication()
	app.FirstName = ""
	app.Address.ZipCode = "bad"

	price, err := QuoteAt(app, testNow)
	if price != 0 {
		t.Errorf("no price may be computed for an invalid application, got %v", price)
	}

	var vErr *ValidationFailedError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationFailedError, got %T: %v", err, err)
	}
	if len(vErr.Errors) != 2 {
		t.Errorf("expected the complete violation list, got %v", vErr.Errors)
	}
	if !strings.HasPrefix(vErr.Error(), "Validation failed: ") {
		t.Errorf("unexpected message: %q", vErr.Error())
	}
	if !strings.Contains(vErr.Error(), "firstName: First name is required") {
		t.Errorf("message should carry field: message pairs, got %q", vErr.Error())
	}
	if !strings.Contains(vErr.Error(), "; ") {
		t.Errorf("pairs should be joined with a semicolon, got %q", vErr.Error())
	}
}

// End-to-end: a complete application validated and quoted in one pass.
func TestQuoteEndToEnd(t *testing.T) {
	dob := time.Now().AddDate(-25, 0, 0)
	app := models.Application{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: &dob,
		Address: &models.Address{
			Street: "123 Main St", City: "Springfield", State: "IL", ZipCode: "62704",
		},
		Vehicles: []models.Vehicle{{VIN: "1HGCM82633A004352", Year: intPtr(2020), Make: "Honda", Model: "Civic"}},
	}

	if errs := Validate(app); !errs.Valid() {
		t.Fatalf("expected valid application, got %v", errs)
	}
	price, err := Quote(app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 1500 {
		t.Errorf("expected 1500, got %v", price)
	}
}
