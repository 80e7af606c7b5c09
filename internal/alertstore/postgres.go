package alertstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/metrics"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// PostgresStore implements Querier on a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logging.Logger
}

// NewPostgresStore connects to PostgreSQL and verifies the connection.
func NewPostgresStore(ctx context.Context, connString string, logger *logging.Logger) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrStoreUnavailable, err)
	}

	return &PostgresStore{pool: pool, logger: logging.OrDefault(logger)}, nil
}

// Query runs q and collects every row into a Row map.
func (s *PostgresStore) Query(ctx context.Context, q Query) ([]Row, error) {
	start := time.Now()
	rows, err := s.pool.Query(ctx, q.Text, q.Args)
	if err != nil {
		metrics.ObserveStoreQuery(q.Key, metrics.StatusError, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, q.Key, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		metrics.ObserveStoreQuery(q.Key, metrics.StatusError, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, q.Key, err)
	}
	metrics.ObserveStoreQuery(q.Key, metrics.StatusOK, time.Since(start))

	out := make([]Row, len(maps))
	for i, m := range maps {
		out[i] = Row(m)
	}

	s.logger.DebugContext(ctx, "alert store query",
		logging.QueryKey(q.Key),
		logging.Rows(len(out)),
		logging.Duration(time.Since(start)),
	)
	return out, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// InsertAlerts bulk loads alerts with COPY and returns the number of rows written.
func (s *PostgresStore) InsertAlerts(ctx context.Context, alerts []models.Alert) (int64, error) {
	rows := make([][]interface{}, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []interface{}{
			a.Name, a.IP, a.Port, a.Severity, a.ThreatCategory, a.RiskScore, a.Reason, a.Timestamp,
		})
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"alerts"},
		[]string{"name", "ip", "port", "severity", "threat_category", "risk_score", "reason", "alert_time"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return n, fmt.Errorf("%w: insert alerts: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}
