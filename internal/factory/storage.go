package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/config"
	storepkg "github.com/Clinton-Cochrane/mobile-grocery/internal/store"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store/memory"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store/mongodb"
)

// NewStore returns the store.Store selected by cfg.DBDriver.
// The mongo driver connects synchronously, retrying with exponential backoff
// up to cfg.StoreConnectRetries times, and applies the collection validator
// and indexes before returning.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.New(), nil
	case config.DriverMongo:
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}

	client, err := connectMongo(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	cctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	db := client.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureSchema(cctx, db, cfg.MongoCollection); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure mongo schema: %w", err)
	}
	log.Info().
		Str("database", cfg.MongoDatabase).
		Str("collection", cfg.MongoCollection).
		Msg("mongo store ready")
	return mongodb.NewWithCollection(db.Collection(cfg.MongoCollection)), nil
}

func connectMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*mongo.Client, error) {
	if cfg.MongoURI == "" {
		return nil, backoff.Permanent(fmt.Errorf("RECIPE_SERVICE_MONGO_URI is required when DB_DRIVER=mongo"))
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	var client *mongo.Client
	attempt := 0
	op := func() error {
		attempt++
		cctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
		c, err := mongodb.Open(cctx, cfg.MongoURI)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("mongo connect failed")
			return err
		}
		client = c
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(cfg.StoreConnectRetries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return client, nil
}
