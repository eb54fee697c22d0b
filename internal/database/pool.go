package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mytheresa/storefront/internal/logger"
)

const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

// Config describes how to build a Pool.
type Config struct {
	URL    string
	Driver string
	// RequireTLS forces TLS on every connection attempt made by the pgx
	// driver. The postgres (lib/pq) driver honours the sslmode in URL.
	RequireTLS bool
	// InsecureSkipVerify accepts self-signed and untrusted certificates.
	InsecureSkipVerify bool
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
}

// Pool owns the process's database connections. Every statement runs on a
// connection leased for that call and returned before the call completes.
type Pool struct {
	db     *sql.DB
	driver string
	log    *logger.Logger

	gormOnce sync.Once
	gormDB   *gorm.DB
	gormErr  error
}

// Open builds the pool and verifies it with a ping. Construction errors
// are returned as-is; there is no retry.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*Pool, error) {
	if cfg.URL == "" {
		return nil, &Error{Op: "open", Kind: KindUnknown, Err: fmt.Errorf("empty connection string")}
	}

	var db *sql.DB
	switch cfg.Driver {
	case DriverPgx, "":
		connConfig, err := pgxConnConfig(cfg)
		if err != nil {
			return nil, &Error{Op: "open", Kind: KindUnknown, Err: err}
		}
		db = stdlib.OpenDB(*connConfig)
	case DriverPq:
		var err error
		db, err = sql.Open(DriverPq, cfg.URL)
		if err != nil {
			return nil, &Error{Op: "open", Kind: KindUnknown, Err: err}
		}
	default:
		return nil, &Error{Op: "open", Kind: KindUnknown, Err: fmt.Errorf("unsupported driver %q", cfg.Driver)}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap("open", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverPgx
	}
	log.Info("database connection pool established", "driver", driver, "max_open_conns", cfg.MaxOpenConns)
	return New(db, driver, log), nil
}

// New wraps an already opened *sql.DB.
func New(db *sql.DB, driver string, log *logger.Logger) *Pool {
	if log == nil {
		log = logger.Get()
	}
	return &Pool{db: db, driver: driver, log: log}
}

func pgxConnConfig(cfg Config) (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if !cfg.RequireTLS {
		return connConfig, nil
	}

	connConfig.TLSConfig = &tls.Config{
		ServerName:         connConfig.Host,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}
	// Fallbacks without TLS would allow a plaintext connection.
	for _, fb := range connConfig.Fallbacks {
		fb.TLSConfig = &tls.Config{
			ServerName:         fb.Host,
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
		}
	}
	return connConfig, nil
}

// Driver returns the name of the database/sql driver in use.
func (p *Pool) Driver() string { return p.driver }

// Stats returns pool statistics.
func (p *Pool) Stats() sql.DBStats { return p.db.Stats() }

// Close releases every connection. Called once at shutdown.
func (p *Pool) Close() error {
	return p.db.Close()
}

// Ping runs a trivial statement and returns the server's clock.
func (p *Pool) Ping(ctx context.Context) (time.Time, error) {
	res, err := p.Query(ctx, "SELECT NOW() AS now")
	if err != nil {
		return time.Time{}, err
	}
	row := res.First()
	if row == nil {
		return time.Time{}, &Error{Op: "ping", Kind: KindUnknown, Err: fmt.Errorf("no row returned")}
	}
	return row.Time("now"), nil
}
