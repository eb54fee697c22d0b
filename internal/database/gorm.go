package database

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormBase returns the pool's gorm instance, built on first use. Model schemas
// parsed by it are cached for the life of the pool.
func (p *Pool) gormBase() (*gorm.DB, error) {
	p.gormOnce.Do(func() {
		p.gormDB, p.gormErr = gorm.Open(postgres.New(postgres.Config{Conn: p.db}), &gorm.Config{
			Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
			SkipDefaultTransaction: true,
			DisableAutomaticPing:   true,
		})
	})
	return p.gormDB, p.gormErr
}

// WithGorm exposes a leased connection as a gorm session for the duration
// of fn. The connection goes back to the pool when fn returns.
func (p *Pool) WithGorm(ctx context.Context, fn func(db *gorm.DB) error) error {
	base, err := p.gormBase()
	if err != nil {
		return wrap("gorm", err)
	}

	return p.withConn(ctx, "gorm", func(conn *sql.Conn) error {
		session := base.Session(&gorm.Session{NewDB: true, Context: ctx})
		session.Statement.ConnPool = conn
		if err := fn(session); err != nil {
			return wrap("gorm", err)
		}
		return nil
	})
}
