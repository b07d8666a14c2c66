package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/oceanminded/insurance-application-form/internal/models"
)

// dateFieldPaths declares every date-bearing field on an application
// submission. A "[]" segment means "each element of the slice at this key".
// Adding a date field elsewhere in the record only requires extending this
// list.
var dateFieldPaths = []string{
	"dateOfBirth",
	"people[].dateOfBirth",
}

// Normalize coerces a raw submission of arbitrary shape into the canonical
// Application record. It never fails: missing fields become empty strings,
// nil slices or nil dates, and unparsable values are treated as absent.
// Malformedness surfaces later as "required" validation errors, never here.
func Normalize(raw map[string]any) models.Application {
	for _, path := range dateFieldPaths {
		coerceDate(raw, strings.Split(path, "."))
	}

	app := models.Application{
		ID:          asString(raw["id"]),
		FirstName:   asString(raw["firstName"]),
		LastName:    asString(raw["lastName"]),
		DateOfBirth: asDate(raw["dateOfBirth"]),
	}

	if addr, ok := raw["address"].(map[string]any); ok {
		app.Address = &models.Address{
			Street:  asString(addr["street"]),
			City:    asString(addr["city"]),
			State:   asString(addr["state"]),
			ZipCode: asString(addr["zipCode"]),
		}
	}

	if vehicles, ok := raw["vehicles"].([]any); ok {
		for _, item := range vehicles {
			v, ok := item.(map[string]any)
			if !ok {
				continue
			}
			app.Vehicles = append(app.Vehicles, models.Vehicle{
				ID:    asString(v["id"]),
				VIN:   asString(v["vin"]),
				Make:  asString(v["make"]),
				Model: asString(v["model"]),
				Year:  asInt(v["year"]),
			})
		}
	}

	if people, ok := raw["people"].([]any); ok {
		for _, item := range people {
			p, ok := item.(map[string]any)
			if !ok {
				continue
			}
			app.People = append(app.People, models.Person{
				ID:           asString(p["id"]),
				FirstName:    asString(p["firstName"]),
				LastName:     asString(p["lastName"]),
				Relationship: asString(p["relationship"]),
				DateOfBirth:  asDate(p["dateOfBirth"]),
			})
		}
	}

	return app
}

// coerceDate walks one declared path through the raw map and replaces the
// terminal value with its parsed date form (or nil when unparsable).
func coerceDate(node map[string]any, segments []string) {
	if len(segments) == 0 {
		return
	}

	head, rest := segments[0], segments[1:]

	if key, isSlice := strings.CutSuffix(head, "[]"); isSlice {
		items, ok := node[key].([]any)
		if !ok {
			return
		}
		for _, item := range items {
			if child, ok := item.(map[string]any); ok {
				coerceDate(child, rest)
			}
		}
		return
	}

	if len(rest) == 0 {
		if _, present := node[head]; present {
			if d := asDate(node[head]); d != nil {
				node[head] = *d
			} else {
				node[head] = nil
			}
		}
		return
	}

	if child, ok := node[head].(map[string]any); ok {
		coerceDate(child, rest)
	}
}

// ParseDate parses an ISO-8601 date string (with or without a time
// component). It returns nil for anything unparsable.
func ParseDate(s string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func asDate(v any) *time.Time {
	switch d := v.(type) {
	case time.Time:
		return &d
	case *time.Time:
		return d
	case string:
		return ParseDate(d)
	default:
		return nil
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return &i
		}
	}
	return nil
}
