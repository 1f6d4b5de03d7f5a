package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Probe sondeo de conectividad: un ping al pool con tiempo máximo.
type Probe struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewProbe construye el sondeo. timeout <= 0 usa 3s.
func NewProbe(pool *pgxpool.Pool, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Probe{pool: pool, timeout: timeout}
}

// IsOnline indica si el backend responde en este momento.
func (p *Probe) IsOnline(ctx context.Context) bool {
	if p == nil || p.pool == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.pool.Ping(ctx) == nil
}
