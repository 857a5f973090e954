package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fjod/go_cart/cart-store/internal/catalog"
	"github.com/fjod/go_cart/cart-store/internal/config"
	"github.com/fjod/go_cart/cart-store/internal/notify"
	"github.com/fjod/go_cart/cart-store/internal/service"
	"github.com/fjod/go_cart/cart-store/internal/storage"
	"github.com/fjod/go_cart/cart-store/pkg/circuitbreaker"
	"github.com/fjod/go_cart/cart-store/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// session is one CLI invocation's cart store plus the resources behind it.
type session struct {
	store    *service.CartStore
	reported *reportCounter
	closers  []func(context.Context) error
}

// reportCounter remembers whether the store notified the user.
type reportCounter struct {
	mu    sync.Mutex
	count int
}

func (r *reportCounter) ReportError(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

func (r *reportCounter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func openSession(ctx context.Context, opts *RootOptions, errOut io.Writer) (*session, error) {
	s := &session{reported: &reportCounter{}}

	cartStorage, err := s.openStorage(ctx, opts.Config.Storage, opts.Log)
	if err != nil {
		s.close(ctx, opts.Log)
		return nil, err
	}

	client := catalog.NewClient(opts.Config.Catalog.BaseURL, opts.Config.Catalog.Timeout, circuitbreaker.Config{}, opts.Log.Named("catalog"))
	notifier := notify.Multi{
		notify.NewWriterNotifier(errOut),
		s.reported,
	}

	store, err := service.NewCartStore(ctx, client, cartStorage, notifier, opts.Log)
	if err != nil {
		s.close(ctx, opts.Log)
		return nil, err
	}
	s.store = store
	return s, nil
}

func (s *session) openStorage(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (storage.CartStorage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("memory storage does not outlive this command")
		return storage.NewMemoryStorage(), nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return storage.NewRedisStorage(client, cfg.Key, 0), nil

	case config.DriverMongo:
		db, err := storage.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.DBName)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Client().Disconnect)
		return storage.NewMongoStorage(db, cfg.Key), nil
	}
	return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.Driver)
}

func (s *session) close(ctx context.Context, log *logger.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}
}

// result turns a reported failure into ErrReported so the exit code is non-zero.
func (s *session) result() error {
	if s.reported.Count() > 0 {
		return ErrReported
	}
	return nil
}
