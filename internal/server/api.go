package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"qingjia/internal/leave"
	"qingjia/pkg/types"
)

// multipart parts above this size spill to temporary files.
const maxMemoryBytes = 8 << 20

type submitForm struct {
	StudentID string `form:"student_id"`
	Name      string `form:"name"`
	Reason    string `form:"reason"`
	LeaveDate string `form:"leave_date"`
}

type exportQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadMB<<20)

	err := r.ParseMultipartForm(maxMemoryBytes)
	if err != nil {
		s.writeError(w, formError(err), "")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var fields = new(submitForm)
	err = decoder.Decode(fields, r.MultipartForm.Value)
	if err != nil {
		s.logger.WithError(err).Error("failed to decode submit form")
		s.writeError(w, types.NewValidationError("invalid form payload"), "")
		return
	}

	photo, err := readPhoto(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to read photo upload")
		s.writeError(w, err, "server error: ")
		return
	}

	photoURL, err := s.submitter.Submit(ctx, &leave.Submission{
		StudentID: fields.StudentID,
		Name:      fields.Name,
		Reason:    fields.Reason,
		LeaveDate: fields.LeaveDate,
		Photo:     photo,
	})
	if err != nil {
		s.writeError(w, err, "server error: ")
		return
	}

	s.writeJSON(w, http.StatusOK, apiResponse{
		Status:   statusSuccess,
		Message:  "application submitted",
		PhotoURL: photoURL,
	})
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	var query = new(exportQuery)
	err := decoder.Decode(query, r.URL.Query())
	if err != nil {
		s.writeError(w, types.NewValidationError("invalid query parameters"), "")
		return
	}

	bundle, err := s.exporter.Export(ctx, leave.ExportRequest{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
	})
	if err != nil {
		s.logger.WithError(err).Error("export failed")
		s.writeError(w, err, "export failed: ")
		return
	}
	defer bundle.Cleanup()

	f, err := bundle.Open()
	if err != nil {
		s.logger.WithError(err).Error("failed to open export archive")
		s.writeError(w, err, "export failed: ")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.logger.WithError(err).Error("failed to stat export archive")
		s.writeError(w, err, "export failed: ")
		return
	}

	w.Header().Set("Content-Type", bundle.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": bundle.Filename}))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		s.logger.WithError(err).Warn("export stream interrupted")
	}
}

// readPhoto returns nil when the request carries no photo part; the
// submitter reports that as a missing field.
func readPhoto(r *http.Request) (*leave.Photo, error) {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &leave.Photo{Filename: header.Filename, Body: body}, nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return types.NewValidationError("upload too large")
	case errors.Is(err, http.ErrNotMultipart):
		return types.NewValidationError("missing field")
	default:
		return types.NewValidationError("invalid form payload")
	}
}
