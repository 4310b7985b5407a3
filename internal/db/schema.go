package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements are safe to run on every start.
var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS qingjia`,
	`CREATE TABLE IF NOT EXISTS qingjia.leave_records (
		id BIGSERIAL PRIMARY KEY,
		student_id VARCHAR(20) NOT NULL,
		name VARCHAR(50) NOT NULL,
		reason TEXT NOT NULL,
		leave_date DATE NOT NULL,
		photo_url VARCHAR(255) NOT NULL,
		create_time TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS leave_records_leave_date_idx ON qingjia.leave_records (leave_date)`,
}

// EnsureSchema creates the leave_records table if it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}
