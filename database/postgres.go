package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/antqd/davveroo/config"
	"github.com/antqd/davveroo/logging"
)

var Pool *pgxpool.Pool

func InitDB(cfg *config.Config) error {
	var err error
	Pool, err = pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := Pool.Ping(context.Background()); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}
	logging.Logger.Info("connected to PostgreSQL",
		zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	if err := EnsureSchema(context.Background(), Pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if cfg.Debug {
		if err := seedDemoData(context.Background(), Pool); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}
	return nil
}

func CloseDB() {
	if Pool != nil {
		Pool.Close()
		logging.Logger.Info("PostgreSQL connection closed")
	}
}

// EnsureSchema creates every table the platform uses. Statements are
// idempotent so a restart against an existing database is a no-op.
// Foreign keys are real here even though the MySQL schema this replaces
// left them implicit.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS agents (
			id BIGSERIAL PRIMARY KEY,
			display_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			status TEXT NOT NULL DEFAULT 'prospect'
				CHECK (status IN ('prospect', 'active')),
			agent_id BIGINT REFERENCES agents(id),
			registered_by_customer_id BIGINT REFERENCES customers(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			roles TEXT[] NOT NULL DEFAULT '{customer}'
				CHECK (roles <@ ARRAY['customer','seller','admin']::TEXT[]),
			customer_id BIGINT REFERENCES customers(id),
			agent_id BIGINT REFERENCES agents(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL REFERENCES customers(id),
			product_id BIGINT NOT NULL REFERENCES products(id),
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'active', 'cancelled')),
			amount NUMERIC(10,2),
			purchased_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS referrals (
			id BIGSERIAL PRIMARY KEY,
			referrer_customer_id BIGINT NOT NULL REFERENCES customers(id),
			referred_customer_id BIGINT NOT NULL REFERENCES customers(id),
			agent_id BIGINT REFERENCES agents(id),
			promised_credit_cents BIGINT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'unlocked', 'redeemed')),
			unlock_purchase_id BIGINT REFERENCES purchases(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			unlocked_at TIMESTAMPTZ,
			redeemed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS redemptions (
			id BIGSERIAL PRIMARY KEY,
			referral_id BIGINT NOT NULL REFERENCES referrals(id),
			amount_cents BIGINT NOT NULL,
			method TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS top_sellers (
			id BIGSERIAL PRIMARY KEY,
			month_key TEXT NOT NULL,
			agent_id BIGINT REFERENCES agents(id),
			agent_name TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_agent ON customers(agent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_referrals_referred_status ON referrals(referred_customer_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_referrals_referrer ON referrals(referrer_customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_customer ON purchases(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_top_sellers_month ON top_sellers(month_key)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedDemoData inserts a couple of agents and products so a fresh dev
// database is usable from the forms right away.
func seedDemoData(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO agents (display_name)
		SELECT v.name FROM (VALUES ('Agenzia Milano'), ('Agenzia Roma')) AS v(name)
		WHERE NOT EXISTS (SELECT 1 FROM agents)`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO products (name)
		SELECT v.name FROM (VALUES ('Luce Casa'), ('Gas Casa'), ('Fibra 1000')) AS v(name)
		WHERE NOT EXISTS (SELECT 1 FROM products)`)
	return err
}
