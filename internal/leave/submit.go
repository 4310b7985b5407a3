package leave

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"qingjia/pkg/types"

	"github.com/sirupsen/logrus"
)

const keyTimestampLayout = "20060102150405"

var photoContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Submission is one leave request as received from the form.
type Submission struct {
	StudentID string
	Name      string
	Reason    string
	LeaveDate string
	Photo     *Photo
}

// Photo is an uploaded image file.
type Photo struct {
	Filename string
	Body     []byte
}

type Submitter struct {
	logger  *logrus.Logger
	records RecordWriter
	photos  PhotoStore
	now     func() time.Time
}

func NewSubmitter(logger *logrus.Logger, records RecordWriter, photos PhotoStore) *Submitter {
	return &Submitter{
		logger:  logger,
		records: records,
		photos:  photos,
		now:     time.Now,
	}
}

// Submit validates sub, uploads its photo and records it. It returns the
// public URL of the stored photo.
//
// An upload that succeeds followed by a failed insert leaves the photo in the
// bucket; nothing is rolled back across the two stores.
func (s *Submitter) Submit(ctx context.Context, sub *Submission) (string, error) {

	leaveDate, ext, err := validateSubmission(sub)
	if err != nil {
		return "", err
	}

	key := PhotoKey(sub.StudentID, sub.Name, s.now(), ext)

	entry := s.logger.WithFields(logrus.Fields{
		"student_id": sub.StudentID,
		"key":        key,
	})

	err = s.photos.PutPhoto(ctx, key, sub.Photo.Body, photoContentTypes[ext])
	if err != nil {
		entry.WithError(err).Error("failed to upload leave photo")
		return "", &types.UploadError{Key: key, Err: err}
	}

	photoURL := s.photos.PublicURL(key)

	record := &types.LeaveRecord{
		StudentID: sub.StudentID,
		Name:      sub.Name,
		Reason:    sub.Reason,
		LeaveDate: leaveDate,
		PhotoURL:  photoURL,
	}

	err = s.records.CreateLeaveRecord(ctx, record)
	if err != nil {
		entry.WithError(err).Error("failed to save leave record, photo left in bucket")
		return "", &types.PersistenceError{Err: err}
	}

	entry.WithField("record_id", record.ID).Info("leave request submitted")

	return photoURL, nil
}

// PhotoKey builds the object key for a photo. Two submissions from the same
// student and name within one second share a key.
func PhotoKey(studentID, name string, at time.Time, ext string) string {
	return fmt.Sprintf("photos/%s_%s_%s%s", studentID, name, at.Format(keyTimestampLayout), strings.ToLower(ext))
}

func validateSubmission(sub *Submission) (time.Time, string, error) {
	if sub == nil ||
		!required(sub.StudentID) ||
		!required(sub.Name) ||
		!required(sub.Reason) ||
		!required(sub.LeaveDate) ||
		sub.Photo == nil ||
		sub.Photo.Filename == "" ||
		len(sub.Photo.Body) == 0 {
		return time.Time{}, "", types.NewValidationError("missing field")
	}

	leaveDate, err := parseDate(sub.LeaveDate)
	if err != nil {
		return time.Time{}, "", types.NewValidationError("bad date format")
	}

	ext := strings.ToLower(filepath.Ext(sub.Photo.Filename))
	if _, ok := photoContentTypes[ext]; !ok {
		return time.Time{}, "", types.NewValidationError("unsupported image type")
	}

	return leaveDate, ext, nil
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}
