package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiprotich-dev/bahatibot/internal/ledger"
)

// PGStore persists both records in Postgres. Save runs in a single
// transaction so the payment flags and the ledger can never diverge.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *PGStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS payments (
			user_id TEXT PRIMARY KEY,
			paid BOOLEAN NOT NULL
		);
		CREATE TABLE IF NOT EXISTS revenue (
			id INT PRIMARY KEY CHECK (id = 1),
			total_revenue BIGINT NOT NULL,
			reward_pool BIGINT NOT NULL,
			players TEXT[] NOT NULL
		);
	`)
	return err
}

func (s *PGStore) Load(ctx context.Context) (map[string]bool, ledger.State, error) {
	paid := make(map[string]bool)

	rows, err := s.pool.Query(ctx, "SELECT user_id, paid FROM payments")
	if err != nil {
		return nil, ledger.State{}, fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var p bool
		if err := rows.Scan(&id, &p); err != nil {
			return nil, ledger.State{}, err
		}
		paid[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.State{}, err
	}

	ls := ledger.State{Players: []string{}}
	err = s.pool.QueryRow(ctx,
		"SELECT total_revenue, reward_pool, players FROM revenue WHERE id = 1",
	).Scan(&ls.TotalRevenue, &ls.RewardPool, &ls.Players)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.State{}, fmt.Errorf("failed to load revenue: %w", err)
	}
	if ls.Players == nil {
		ls.Players = []string{}
	}
	return paid, ls, nil
}

func (s *PGStore) Save(ctx context.Context, paid map[string]bool, ls ledger.State) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM payments"); err != nil {
		return err
	}
	for id, p := range paid {
		if _, err := tx.Exec(ctx,
			"INSERT INTO payments (user_id, paid) VALUES ($1, $2)", id, p,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO revenue (id, total_revenue, reward_pool, players)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET total_revenue = $1, reward_pool = $2, players = $3
	`, ls.TotalRevenue, ls.RewardPool, ls.Players); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PGStore) Close() {
	s.pool.Close()
}
