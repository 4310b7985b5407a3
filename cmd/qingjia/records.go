package main

import (
	"context"
	"fmt"
	"time"

	"qingjia/internal/db"
	"qingjia/internal/store"
	"qingjia/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var recordsCommand = &cli.Command{
	Name:  "records",
	Usage: "Print leave records in a date range",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "start",
			Usage: "First leave date (YYYY-MM-DD), defaults to today",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "Last leave date (YYYY-MM-DD), defaults to start",
		},
	},
	Action: func(c *cli.Context) error {
		start, end, err := recordsRange(c.String("start"), c.String("end"), time.Now())
		if err != nil {
			return err
		}

		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		records, err := store.NewLeaveRecordRepository(pool).LeaveRecordsBetween(ctx, start, end)
		if err != nil {
			return err
		}

		_, err = pp.Println(records)
		return err
	},
}

func recordsRange(startFlag, endFlag string, now time.Time) (time.Time, time.Time, error) {
	start := now
	if startFlag != "" {
		parsed, err := time.Parse(types.DateLayout, startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
		}
		start = parsed
	}

	end := start
	if endFlag != "" {
		parsed, err := time.Parse(types.DateLayout, endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
		end = parsed
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--start must not be after --end")
	}

	return start, end, nil
}
