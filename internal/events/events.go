package events

import "time"

// Event types
const (
	ApplicationCreated = "application.created"
	ApplicationUpdated = "application.updated"
	VehicleAdded       = "vehicle.added"
	VehicleRemoved     = "vehicle.removed"
	PersonAdded        = "person.added"
	PersonRemoved      = "person.removed"
	QuoteGenerated     = "quote.generated"
)

// Stream names
const (
	ApplicationEventsStream = "application.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type ApplicationCreatedEvent struct {
	ApplicationID string `json:"applicationId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
}

type ApplicationUpdatedEvent struct {
	ApplicationID string `json:"applicationId"`
	VehicleCount  int    `json:"vehicleCount"`
	PeopleCount   int    `json:"peopleCount"`
}

type VehicleAddedEvent struct {
	ApplicationID string `json:"applicationId"`
	VehicleID     string `json:"vehicleId"`
	VIN           string `json:"vin"`
}

type VehicleRemovedEvent struct {
	ApplicationID string `json:"applicationId"`
	VehicleID     string `json:"vehicleId"`
}

type PersonAddedEvent struct {
	ApplicationID string `json:"applicationId"`
	PersonID      string `json:"personId"`
}

type PersonRemovedEvent struct {
	ApplicationID string `json:"applicationId"`
	PersonID      string `json:"personId"`
}

type QuoteGeneratedEvent struct {
	ApplicationID string  `json:"applicationId"`
	Price         float64 `json:"price"`
}
