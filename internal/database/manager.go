package database

import (
	"context"
	"sync"

	"github.com/mytheresa/storefront/internal/logger"
)

type openFunc func(ctx context.Context, cfg Config, log *logger.Logger) (*Pool, error)

// Manager builds the pool on first use and hands the same pool to every
// later caller. It is owned by the composition root.
type Manager struct {
	cfg  Config
	log  *logger.Logger
	open openFunc

	mu   sync.Mutex
	pool *Pool
}

func NewManager(cfg Config, log *logger.Logger) *Manager {
	return &Manager{cfg: cfg, log: log, open: Open}
}

// Pool returns the shared pool, creating it if needed. A failed attempt
// is returned to the caller and nothing is cached.
func (m *Manager) Pool(ctx context.Context) (*Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		return m.pool, nil
	}
	pool, err := m.open(ctx, m.cfg, m.log)
	if err != nil {
		return nil, err
	}
	m.pool = pool
	return pool, nil
}

// Close closes the pool if one was created.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool == nil {
		return nil
	}
	err := m.pool.Close()
	m.pool = nil
	return err
}
