package rules

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/oceanminded/insurance-application-form/internal/models"
)

func TestNormalizeEmptyInput(t *testing.T) {
	app := Normalize(map[string]any{})

	if app.FirstName != "" || app.LastName != "" {
		t.Errorf("expected empty names, got %q %q", app.FirstName, app.LastName)
	}
	if app.DateOfBirth != nil {
		t.Errorf("expected nil date of birth, got %v", app.DateOfBirth)
	}
	if app.Address != nil {
		t.Errorf("expected nil address, got %v", app.Address)
	}
	if app.Vehicles != nil || app.People != nil {
		t.Errorf("expected nil child collections, got %v %v", app.Vehicles, app.People)
	}
}

func TestNormalizeDates(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *time.Time
	}{
		{"plain date string", "2000-01-15", datePtr(2000, time.January, 15)},
		{"RFC 3339 string", "2000-01-15T00:00:00Z", datePtr(2000, time.January, 15)},
		{"already a date value", *datePtr(1999, time.May, 2), datePtr(1999, time.May, 2)},
		{"unparsable string", "not-a-date", nil},
		{"wrong type", 42.0, nil},
		{"missing", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{}
			if tt.value != nil {
				raw["dateOfBirth"] = tt.value
			}
			app := Normalize(raw)
			switch {
			case tt.want == nil && app.DateOfBirth != nil:
				t.Errorf("expected nil, got %v", app.DateOfBirth)
			case tt.want != nil && (app.DateOfBirth == nil || !app.DateOfBirth.Equal(*tt.want)):
				t.Errorf("expected %v, got %v", tt.want, app.DateOfBirth)
			}
		})
	}
}

func TestNormalizeNestedDatePaths(t *testing.T) {
	raw := map[string]any{
		"people": []any{
			map[string]any{"firstName": "Sam", "dateOfBirth": "1999-05-02"},
			map[string]any{"firstName": "Max", "dateOfBirth": "garbage"},
		},
	}

	app := Normalize(raw)
	if len(app.People) != 2 {
		t.Fatalf("expected 2 people, got %d", len(app.People))
	}
	if app.People[0].DateOfBirth == nil || !app.People[0].DateOfBirth.Equal(*datePtr(1999, time.May, 2)) {
		t.Errorf("expected parsed date for first person, got %v", app.People[0].DateOfBirth)
	}
	if app.People[1].DateOfBirth != nil {
		t.Errorf("expected nil date for unparsable value, got %v", app.People[1].DateOfBirth)
	}
}

func TestNormalizeFullSubmission(t *testing.T) {
	raw := map[string]any{
		"firstName":   "Jane",
		"lastName":    "Doe",
		"dateOfBirth": "2000-01-15",
		"address": map[string]any{
			"street": "123 Main St", "city": "Springfield", "state": "IL", "zipCode": "62704",
		},
		// JSON numbers arrive as float64
		"vehicles": []any{
			map[string]any{"vin": "1HGCM82633A004352", "make": "Honda", "model": "Civic", "year": 2020.0},
		},
		"people": []any{
			map[string]any{"firstName": "Sam", "lastName": "Doe", "relationship": "Sibling", "dateOfBirth": "1999-05-02"},
		},
	}

	app := Normalize(raw)
	if errs := ValidateAt(app, testNow); !errs.Valid() {
		t.Fatalf("normalized submission should be valid, got %v", errs)
	}
	if app.Vehicles[0].Year == nil || *app.Vehicles[0].Year != 2020 {
		t.Errorf("expected year 2020, got %v", app.Vehicles[0].Year)
	}
	if app.People[0].Relationship != models.RelationshipSibling {
		t.Errorf("expected Sibling, got %q", app.People[0].Relationship)
	}
}

func TestNormalizeYearFromString(t *testing.T) {
	raw := map[string]any{
		"vehicles": []any{
			map[string]any{"vin": "x", "make": "y", "model": "z", "year": "2020"},
			map[string]any{"vin": "x", "make": "y", "model": "z", "year": "soon"},
		},
	}
	app := Normalize(raw)
	if app.Vehicles[0].Year == nil || *app.Vehicles[0].Year != 2020 {
		t.Errorf("expected parsed year 2020, got %v", app.Vehicles[0].Year)
	}
	if app.Vehicles[1].Year != nil {
		t.Errorf("expected nil year for unparsable value, got %v", app.Vehicles[1].Year)
	}
}

// Normalizing the wire form of an already-canonical application must be the
// identity.
func TestNormalizeIsIdempotent(t *testing.T) {
	canonical := validApplication()
	canonical.People = []models.Person{{
		FirstName: "Sam", LastName: "Doe",
		Relationship: models.RelationshipSpouse,
		DateOfBirth:  datePtr(1999, time.May, 2),
	}}

	data, err := json.Marshal(canonical)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	normalized := Normalize(raw)
	if !reflect.DeepEqual(normalized, canonical) {
		t.Fatalf("round trip changed the record:\n got %+v\nwant %+v", normalized, canonical)
	}
}
