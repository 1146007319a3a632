package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"notesapp/internal/config"
	"notesapp/internal/metrics"
)

// DB is the subset of *pgxpool.Pool the application uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
	Close()
}

// Dialer opens a new connection pool for cfg.
type Dialer func(ctx context.Context, cfg Config) (DB, error)

type Config struct {
	URL                    string
	DatabaseName           string
	AppName                string
	MaxPoolSize            int32
	MinPoolSize            int32
	MaxIdleTime            time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

// FromAppConfig extracts the store settings from the application config.
func FromAppConfig(c config.Config) Config {
	return Config{
		URL:                    c.DatabaseURL,
		DatabaseName:           c.DatabaseName,
		AppName:                c.AppName,
		MaxPoolSize:            c.MaxPoolSize,
		MinPoolSize:            c.MinPoolSize,
		MaxIdleTime:            c.MaxIdleTime,
		ServerSelectionTimeout: c.ServerSelectionTimeout,
		SocketTimeout:          c.SocketTimeout,
	}
}

// Service owns the connection to the store. The first Acquire connects;
// later calls reuse the cached pool until Close.
type Service interface {
	Acquire(ctx context.Context) (DB, error)
	// Connected reports whether the store answers a ping. It never fails.
	Connected(ctx context.Context) bool
	Health(ctx context.Context) map[string]string
	Close()
}

type Option func(*service)

func WithDialer(d Dialer) Option {
	return func(s *service) {
		s.dial = d
	}
}

type service struct {
	cfg  Config
	dial Dialer

	mu sync.RWMutex
	db DB
	// generation is bumped by Close; a dial started in an older generation
	// must not install its pool.
	generation uint64

	// connecting holds at most one in-flight dial; waiters share its result.
	connecting singleflight.Group
}

func New(cfg Config, opts ...Option) Service {
	s := &service{
		cfg:  cfg,
		dial: DialPool,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

const connectKey = "connect"

var errClosedDuringDial = errors.New("connection manager closed while connecting")

func (s *service) cached() DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

func (s *service) Acquire(ctx context.Context) (DB, error) {
	if db := s.cached(); db != nil {
		return db, nil
	}

	ch := s.connecting.DoChan(connectKey, func() (any, error) {
		s.mu.RLock()
		db, gen := s.db, s.generation
		s.mu.RUnlock()
		if db != nil {
			return db, nil
		}
		if s.cfg.URL == "" {
			return nil, &ConfigurationError{Key: "DATABASE_URL"}
		}

		// The dial outlives any single caller; only the configured timeout bounds it.
		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.dialTimeout())
		defer cancel()

		zap.S().Debugf("Connecting to database (%s)", s.cfg)
		db, err := s.dial(dialCtx, s.cfg)
		metrics.ObserveConnectionAttempt(err)
		if err != nil {
			connErr := classifyConnError(err)
			zap.S().Errorf("Failed to connect to database [%s]: %v", connErr.Kind, err)
			return nil, connErr
		}

		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			db.Close()
			zap.S().Infof("Discarded database connection opened during Close")
			return nil, &ConnectionError{Kind: ConnGeneric, Err: errClosedDuringDial}
		}
		s.db = db
		s.mu.Unlock()
		zap.S().Infof("Connected to database")
		return db, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(DB), nil
	case <-ctx.Done():
		kind := ConnGeneric
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = ConnTimeout
		}
		return nil, &ConnectionError{Kind: kind, Err: ctx.Err()}
	}
}

// dialTimeout bounds the whole dial: server selection plus the initial ping.
func (s *service) dialTimeout() time.Duration {
	if s.cfg.ServerSelectionTimeout > 0 {
		return 2 * s.cfg.ServerSelectionTimeout
	}
	return 2 * config.DefaultServerSelectionTimeout
}

func (s *service) Connected(ctx context.Context) bool {
	if s.cfg.URL == "" {
		return false
	}
	db, err := s.Acquire(ctx)
	if err != nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		zap.S().Debugf("Failed to ping database: %s", err)
		return false
	}
	return true
}

func (s *service) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	if s.cfg.URL == "" {
		stats["status"] = "down"
		stats["error"] = (&ConfigurationError{Key: "DATABASE_URL"}).Error()
		return stats
	}

	db, err := s.Acquire(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	start := time.Now()
	if err := db.Ping(pingCtx); err != nil {
		stats["status"] = "down"
		stats["error"] = classifyConnError(err).Error()
		return stats
	}
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["latency"] = time.Since(start).String()
	return stats
}

// Close releases the cached pool. A dial still in flight discards its pool
// instead of caching it; the next Acquire starts over.
func (s *service) Close() {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.generation++
	s.mu.Unlock()
	s.connecting.Forget(connectKey)

	if db != nil {
		db.Close()
		zap.S().Infof("Disconnected from database")
	}
}
