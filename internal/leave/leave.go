// Package leave holds the submission and export pipelines for student leave
// requests. Both pipelines take their stores as interfaces so the server wires
// in Postgres and S3 while tests use in-memory fakes.
package leave

import (
	"context"
	"time"

	"qingjia/pkg/types"
)

// RecordWriter persists a new leave record, filling in ID and CreateTime.
type RecordWriter interface {
	CreateLeaveRecord(ctx context.Context, record *types.LeaveRecord) error
}

// RecordReader lists leave records with a leave date in [start, end],
// ordered by leave date descending.
type RecordReader interface {
	LeaveRecordsBetween(ctx context.Context, start, end time.Time) ([]*types.LeaveRecord, error)
}

// PhotoStore is the object store holding leave photos.
type PhotoStore interface {
	PutPhoto(ctx context.Context, key string, body []byte, contentType string) error
	GetPhoto(ctx context.Context, key string) ([]byte, error)
	PublicURL(key string) string
	KeyFromURL(photoURL string) (string, error)
}

func parseDate(v string) (time.Time, error) {
	return time.Parse(types.DateLayout, v)
}
