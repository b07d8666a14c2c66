package models

import "time"

// Relationship values accepted for an additional person on an application.
const (
	RelationshipSpouse  = "Spouse"
	RelationshipSibling = "Sibling"
	RelationshipParent  = "Parent"
	RelationshipFriend  = "Friend"
	RelationshipOther   = "Other"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type Vehicle struct {
	ID    string `json:"id,omitempty"`
	VIN   string `json:"vin"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  *int   `json:"year"`
}

type Person struct {
	ID           string     `json:"id,omitempty"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Relationship string     `json:"relationship"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`
}

// Application is the canonical in-memory record used by validation and
// quoting. Drafts may be arbitrarily incomplete: nil dates, nil address and
// empty strings are all storable; only quoting demands a valid record.
type Application struct {
	ID          string     `json:"id,omitempty"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Address     *Address   `json:"address"`
	Vehicles    []Vehicle  `json:"vehicles"`
	People      []Person   `json:"people"`
	CreatedAt   time.Time  `json:"createdTimestamp"`
	UpdatedAt   time.Time  `json:"updatedTimestamp"`
}
