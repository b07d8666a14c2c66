package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/oceanminded/insurance-application-form/internal/cqrs"
	"github.com/oceanminded/insurance-application-form/internal/events"
	"github.com/oceanminded/insurance-application-form/internal/models"
	"github.com/oceanminded/insurance-application-form/internal/repository"
	"github.com/oceanminded/insurance-application-form/internal/utils"
)

// ApplicationCommandService writes application state to PostgreSQL and keeps
// the Redis read model up to date. Creation and update never run the domain
// rules: drafts may be arbitrarily incomplete, and validity is only demanded
// at quote time.
type ApplicationCommandService struct {
	writeRepo *repository.ApplicationWriteRepository
	readRepo  *repository.ApplicationReadRepository
	publisher *events.Publisher
}

func NewApplicationCommandService(
	writeRepo *repository.ApplicationWriteRepository,
	readRepo *repository.ApplicationReadRepository,
	publisher *events.Publisher,
) *ApplicationCommandService {
	return &ApplicationCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

func (s *ApplicationCommandService) CreateApplication(cmd cqrs.CreateApplicationCommand) (*models.Application, error) {
	app := cmd.Application
	app.ID = utils.GenerateID("app")
	app.CreatedAt = time.Now().UTC()
	app.UpdatedAt = app.CreatedAt
	assignChildIDs(&app)

	if err := s.writeRepo.Create(&app); err != nil {
		return nil, err
	}

	ctx := context.Background()
	stored, err := s.writeRepo.GetByID(app.ID)
	if err != nil {
		return nil, err
	}
	s.readRepo.CacheApplication(ctx, stored)
	s.publish(ctx, events.ApplicationCreated, events.ApplicationCreatedEvent{
		ApplicationID: stored.ID,
		FirstName:     stored.FirstName,
		LastName:      stored.LastName,
	})
	return stored, nil
}

// UpdateApplication replaces the application's own fields and both child
// collections wholesale; child identifiers are reassigned. Identity-preserving
// edits go through AddVehicle/AddPerson/RemoveVehicle/RemovePerson.
func (s *ApplicationCommandService) UpdateApplication(cmd cqrs.UpdateApplicationCommand) (*models.Application, error) {
	app := cmd.Application
	app.ID = cmd.ApplicationID
	app.UpdatedAt = time.Now().UTC()
	assignChildIDs(&app)

	if err := s.writeRepo.Update(&app); err != nil {
		return nil, err
	}

	// Drop the stale view before reloading so a failed reload never leaves
	// the pre-update record in the cache.
	ctx := context.Background()
	s.readRepo.InvalidateApplication(ctx, app.ID)
	stored, err := s.writeRepo.GetByID(app.ID)
	if err != nil {
		return nil, err
	}
	s.readRepo.CacheApplication(ctx, stored)
	s.publish(ctx, events.ApplicationUpdated, events.ApplicationUpdatedEvent{
		ApplicationID: stored.ID,
		VehicleCount:  len(stored.Vehicles),
		PeopleCount:   len(stored.People),
	})
	return stored, nil
}

func (s *ApplicationCommandService) AddVehicle(cmd cqrs.AddVehicleCommand) (*models.Application, error) {
	vehicle := cmd.Vehicle
	vehicle.ID = utils.GenerateID("veh")

	if err := s.writeRepo.AddVehicle(cmd.ApplicationID, &vehicle); err != nil {
		return nil, err
	}
	stored, err := s.refresh(cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	s.publish(context.Background(), events.VehicleAdded, events.VehicleAddedEvent{
		ApplicationID: cmd.ApplicationID,
		VehicleID:     vehicle.ID,
		VIN:           vehicle.VIN,
	})
	return stored, nil
}

func (s *ApplicationCommandService) AddPerson(cmd cqrs.AddPersonCommand) (*models.Application, error) {
	person := cmd.Person
	person.ID = utils.GenerateID("per")

	if err := s.writeRepo.AddPerson(cmd.ApplicationID, &person); err != nil {
		return nil, err
	}
	stored, err := s.refresh(cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	s.publish(context.Background(), events.PersonAdded, events.PersonAddedEvent{
		ApplicationID: cmd.ApplicationID,
		PersonID:      person.ID,
	})
	return stored, nil
}

func (s *ApplicationCommandService) RemoveVehicle(cmd cqrs.RemoveVehicleCommand) (*models.Application, error) {
	if err := s.writeRepo.DeleteVehicle(cmd.ApplicationID, cmd.VehicleID); err != nil {
		return nil, err
	}
	stored, err := s.refresh(cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	s.publish(context.Background(), events.VehicleRemoved, events.VehicleRemovedEvent{
		ApplicationID: cmd.ApplicationID,
		VehicleID:     cmd.VehicleID,
	})
	return stored, nil
}

func (s *ApplicationCommandService) RemovePerson(cmd cqrs.RemovePersonCommand) (*models.Application, error) {
	if err := s.writeRepo.DeletePerson(cmd.ApplicationID, cmd.PersonID); err != nil {
		return nil, err
	}
	stored, err := s.refresh(cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	s.publish(context.Background(), events.PersonRemoved, events.PersonRemovedEvent{
		ApplicationID: cmd.ApplicationID,
		PersonID:      cmd.PersonID,
	})
	return stored, nil
}

// HandleApplicationEvent is the Redis stream subscriber handler. It keeps the
// quote-counter projection current.
func (s *ApplicationCommandService) HandleApplicationEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.QuoteGenerated:
		dataBytes, _ := json.Marshal(event.Data)
		var data events.QuoteGeneratedEvent
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("failed to unmarshal quote.generated event: %w", err)
		}
		log.Printf("Quote generated for application %s: %.2f", data.ApplicationID, data.Price)
		s.readRepo.IncrQuoteCount(ctx, data.ApplicationID)
	}
	return nil
}

// refresh reloads the stored record after a child mutation and re-caches it.
func (s *ApplicationCommandService) refresh(applicationID string) (*models.Application, error) {
	stored, err := s.writeRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	s.readRepo.CacheApplication(context.Background(), stored)
	return stored, nil
}

func (s *ApplicationCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.ApplicationEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

func assignChildIDs(app *models.Application) {
	for i := range app.Vehicles {
		app.Vehicles[i].ID = utils.GenerateID("veh")
	}
	for i := range app.People {
		app.People[i].ID = utils.GenerateID("per")
	}
}
