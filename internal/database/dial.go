package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DialPool opens a bounded pgx pool and pings it once so that a broken
// address fails here instead of on the first query.
func DialPool(ctx context.Context, cfg Config) (DB, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxPoolSize > 0 {
		poolCfg.MaxConns = cfg.MaxPoolSize
	}
	if cfg.MinPoolSize >= 0 && cfg.MinPoolSize <= poolCfg.MaxConns {
		poolCfg.MinConns = cfg.MinPoolSize
	}
	if cfg.MaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxIdleTime
	}
	if cfg.ServerSelectionTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ServerSelectionTimeout
	}

	params := poolCfg.ConnConfig.RuntimeParams
	if cfg.AppName != "" {
		params["application_name"] = cfg.AppName
	}
	if cfg.DatabaseName != "" && poolCfg.ConnConfig.Database == "" {
		poolCfg.ConnConfig.Database = cfg.DatabaseName
	}
	if cfg.SocketTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.SocketTimeout.Milliseconds(), 10)
		params["idle_in_transaction_session_timeout"] = strconv.FormatInt(cfg.SocketTimeout.Milliseconds(), 10)
	}
	return poolCfg, nil
}

func (c Config) String() string {
	return fmt.Sprintf("pool[max=%d min=%d idle=%s select=%s socket=%s]",
		c.MaxPoolSize, c.MinPoolSize, c.MaxIdleTime, c.ServerSelectionTimeout, c.SocketTimeout)
}
