package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"qingjia/pkg/types"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	PhotoURL string `json:"photo_url,omitempty"`
}

func (s *Service) renderTemplate(w http.ResponseWriter, templateName string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode json response")
	}
}

// writeError answers 400 with the message of a validation error and 500
// with prefix plus the error text for everything else.
func (s *Service) writeError(w http.ResponseWriter, err error, prefix string) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		s.writeJSON(w, http.StatusBadRequest, apiResponse{Status: statusError, Message: verr.Message})
		return
	}

	s.writeJSON(w, http.StatusInternalServerError, apiResponse{Status: statusError, Message: prefix + err.Error()})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
