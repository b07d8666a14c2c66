package cqrs

import "github.com/oceanminded/insurance-application-form/internal/models"

type CreateApplicationCommand struct {
	Application models.Application
}

type UpdateApplicationCommand struct {
	ApplicationID string
	Application   models.Application
}

type AddVehicleCommand struct {
	ApplicationID string
	Vehicle       models.Vehicle
}

type AddPersonCommand struct {
	ApplicationID string
	Person        models.Person
}

type RemoveVehicleCommand struct {
	ApplicationID string
	VehicleID     string
}

type RemovePersonCommand struct {
	ApplicationID string
	PersonID      string
}
