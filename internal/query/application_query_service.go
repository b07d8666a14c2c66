package query

import (
	"context"
	"log"

	"github.com/oceanminded/insurance-application-form/internal/cqrs"
	"github.com/oceanminded/insurance-application-form/internal/events"
	"github.com/oceanminded/insurance-application-form/internal/models"
	"github.com/oceanminded/insurance-application-form/internal/repository"
	"github.com/oceanminded/insurance-application-form/internal/rules"
)

// ApplicationQueryService reads application views from the Redis cache (with
// a Postgres fallback) and runs the validate-then-quote pipeline.
type ApplicationQueryService struct {
	readRepo  *repository.ApplicationReadRepository
	publisher *events.Publisher
}

func NewApplicationQueryService(
	readRepo *repository.ApplicationReadRepository,
	publisher *events.Publisher,
) *ApplicationQueryService {
	return &ApplicationQueryService{readRepo: readRepo, publisher: publisher}
}

func (s *ApplicationQueryService) GetApplication(q cqrs.GetApplicationQuery) (*models.ApplicationView, error) {
	return s.readRepo.GetView(context.Background(), q.ApplicationID)
}

// GenerateQuote validates the stored application and, when it passes, prices
// it. An invalid application yields a *rules.ValidationFailedError carrying
// every violation; no price is ever computed for an invalid record.
func (s *ApplicationQueryService) GenerateQuote(q cqrs.GenerateQuoteQuery) (float64, error) {
	ctx := context.Background()
	app, err := s.readRepo.GetByID(ctx, q.ApplicationID)
	if err != nil {
		return 0, err
	}

	if errs := rules.Validate(*app); !errs.Valid() {
		return 0, &rules.ValidationFailedError{Errors: errs}
	}

	price, err := rules.Quote(*app)
	if err != nil {
		return 0, err
	}

	if err := s.publisher.Publish(ctx, events.ApplicationEventsStream, events.QuoteGenerated, events.QuoteGeneratedEvent{
		ApplicationID: q.ApplicationID,
		Price:         price,
	}); err != nil {
		log.Printf("Failed to publish quote.generated event: %v", err)
	}

	return price, nil
}
