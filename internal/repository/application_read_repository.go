package repository

import (
	"context"
	"database/sql"
	"log"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oceanminded/insurance-application-form/internal/models"
	appredis "github.com/oceanminded/insurance-application-form/internal/redis"
)

const (
	applicationViewKeyPrefix  = "application:view:"
	applicationQuoteKeyPrefix = "application:quotes:"
)

// ApplicationReadRepository handles all read operations for applications.
// Redis is the primary read store, falling back to PostgreSQL on a miss.
type ApplicationReadRepository struct {
	db     *sql.DB
	client *goredis.Client
	cache  *appredis.ViewCache[models.Application]
}

func NewApplicationReadRepository(db *sql.DB, redisClient *goredis.Client) *ApplicationReadRepository {
	return &ApplicationReadRepository{
		db:     db,
		client: redisClient,
		cache:  appredis.NewViewCache[models.Application](redisClient, 0),
	}
}

// GetByID returns an application from Redis first, then PostgreSQL.
func (r *ApplicationReadRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	cacheKey := applicationViewKeyPrefix + id

	if app, ok := r.cache.Get(ctx, cacheKey); ok {
		return app, nil
	}

	app, err := loadApplication(r.db, id)
	if err != nil {
		return nil, err
	}

	// Warm the cache
	r.CacheApplication(ctx, app)
	return app, nil
}

// GetView composes the read-optimised projection: the application plus its
// quote counter.
func (r *ApplicationReadRepository) GetView(ctx context.Context, id string) (*models.ApplicationView, error) {
	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewApplicationView(app, r.QuoteCount(ctx, id)), nil
}

// CacheApplication stores or refreshes the Redis read model for an
// application. Called by the command service after every mutation.
func (r *ApplicationReadRepository) CacheApplication(ctx context.Context, app *models.Application) {
	r.cache.Set(ctx, applicationViewKeyPrefix+app.ID, app)
}

// InvalidateApplication removes the Redis read model entry.
func (r *ApplicationReadRepository) InvalidateApplication(ctx context.Context, id string) {
	r.cache.Delete(ctx, applicationViewKeyPrefix+id)
}

// IncrQuoteCount bumps the per-application quote counter. Maintained by the
// event stream subscriber.
func (r *ApplicationReadRepository) IncrQuoteCount(ctx context.Context, id string) {
	if err := r.client.Incr(ctx, applicationQuoteKeyPrefix+id).Err(); err != nil {
		log.Printf("Failed to increment quote count for %s: %v", id, err)
	}
}

// QuoteCount returns how many quotes have been generated for an application.
// Missing counters read as zero.
func (r *ApplicationReadRepository) QuoteCount(ctx context.Context, id string) int64 {
	count, err := r.client.Get(ctx, applicationQuoteKeyPrefix+id).Int64()
	if err != nil {
		return 0
	}
	return count
}
