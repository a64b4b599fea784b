// Package database owns the PostgreSQL connection pool.
package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxdesk-backend/internal/config"
)

// Service exposes the pool plus health and lifecycle hooks.
type Service interface {
	// Health returns a status map for the /api/health endpoint.
	Health() map[string]string
	// GetPool returns the underlying pool for queries.
	GetPool() *pgxpool.Pool
	// Close releases all connections.
	Close()
}

type service struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, verifies the connection and applies the schema.
func New(ctx context.Context, cfg *config.DBConfig) (Service, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Printf("[database] connected (max %d conns)", poolCfg.MaxConns)
	return &service{pool: pool}, nil
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	stats := map[string]string{}
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	st := s.pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(st.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(st.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(st.AcquiredConns()))
	return stats
}

func (s *service) GetPool() *pgxpool.Pool {
	return s.pool
}

func (s *service) Close() {
	s.pool.Close()
	log.Println("[database] connection pool closed")
}
