package main

import (
	"context"
	"fmt"

	"qingjia/internal/db"
	"qingjia/internal/leave"
	"qingjia/internal/seed"
	"qingjia/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Submit demo leave requests with placeholder photos",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		ctx := context.Background()

		photos, err := newPhotoStorage(ctx, cfg)
		if err != nil {
			return err
		}

		// Connect to database
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		logger.Info("Connected to database")

		submitter := leave.NewSubmitter(logger, store.NewLeaveRecordRepository(pool), photos)

		logger.Info("Seeding leave requests...")
		n, err := seed.SeedLeaveRequests(ctx, submitter)
		if err != nil {
			return fmt.Errorf("failed to seed leave requests: %w", err)
		}

		logger.WithField("count", n).Info("Leave requests seeded successfully")

		return nil
	},
}
