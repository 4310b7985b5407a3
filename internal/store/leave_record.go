package store

import (
	"context"
	"fmt"
	"time"

	"qingjia/internal/utils"
	"qingjia/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leaveRecordTableName = "qingjia.leave_records"

var leaveRecordColumns = utils.StructTagValues(types.LeaveRecord{})

type LeaveRecordRepository struct {
	pool *pgxpool.Pool
}

func NewLeaveRecordRepository(pool *pgxpool.Pool) *LeaveRecordRepository {
	return &LeaveRecordRepository{pool: pool}
}

// CreateLeaveRecord inserts record in its own transaction and fills in the
// store-assigned ID and CreateTime. The connection goes back to the pool on
// every path.
func (r *LeaveRecordRepository) CreateLeaveRecord(ctx context.Context, record *types.LeaveRecord) error {

	query, args, err := leaveInsertQuery(record).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert leave record query: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, query, args...).Scan(&record.ID, &record.CreateTime)
	if err != nil {
		return fmt.Errorf("failed to insert leave record: %w", err)
	}

	return utils.ErrorWrapOrNil(tx.Commit(ctx), "failed to commit leave record")
}

// LeaveRecordsBetween returns records whose leave date falls in [start, end],
// newest leave date first.
func (r *LeaveRecordRepository) LeaveRecordsBetween(ctx context.Context, start, end time.Time) ([]*types.LeaveRecord, error) {
	query, args, err := leaveRangeQuery(start, end).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate leave range query: %w", err)
	}

	records := make([]*types.LeaveRecord, 0)
	err = pgxscan.Select(ctx, r.pool, &records, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch leave records")
	}

	return records, nil
}

// LeaveRecordsOn returns the records for a single leave date, most recently
// submitted first.
func (r *LeaveRecordRepository) LeaveRecordsOn(ctx context.Context, day time.Time) ([]*types.LeaveRecord, error) {
	query, args, err := leaveDayQuery(day).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate leave day query: %w", err)
	}

	records := make([]*types.LeaveRecord, 0)
	err = pgxscan.Select(ctx, r.pool, &records, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch leave records")
	}

	return records, nil
}

// Ping reports whether the database is reachable.
func (r *LeaveRecordRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func leaveInsertQuery(record *types.LeaveRecord) sq.InsertBuilder {
	return psql().
		Insert(leaveRecordTableName).
		SetMap(utils.StructToMap(record, "id", "create_time")).
		Suffix("RETURNING id, create_time")
}

func leaveRangeQuery(start, end time.Time) sq.SelectBuilder {
	return psql().
		Select(leaveRecordColumns...).
		From(leaveRecordTableName).
		Where(sq.And{
			sq.GtOrEq{"leave_date": dateOnly(start)},
			sq.LtOrEq{"leave_date": dateOnly(end)},
		}).
		OrderBy("leave_date DESC", "id DESC")
}

func leaveDayQuery(day time.Time) sq.SelectBuilder {
	return psql().
		Select(leaveRecordColumns...).
		From(leaveRecordTableName).
		Where(sq.Eq{"leave_date": dateOnly(day)}).
		OrderBy("create_time DESC")
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
