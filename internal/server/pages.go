package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"qingjia/pkg/types"
)

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := &types.IndexPageData{
		BasePageData: types.BasePageData{Title: "请假申请"},
		Today:        s.now().Format(types.DateLayout),
	}

	if err := s.renderTemplate(w, "page.index", data); err != nil {
		s.logger.WithError(err).Error("failed to render index page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleToday(w http.ResponseWriter, r *http.Request) {
	today := s.now()

	records, err := s.records.LeaveRecordsOn(r.Context(), today)
	if err != nil {
		s.logger.WithError(err).Error("failed to load today's leave records")

		data := &types.ErrorPageData{
			BasePageData: types.BasePageData{Title: "出错了"},
			Message:      fmt.Sprintf("failed to load records: %s", err),
		}
		if err := s.renderTemplate(w, "page.error", data); err != nil {
			s.logger.WithError(err).Error("failed to render error page")
			s.internalServerError(w)
		}
		return
	}

	data := &types.TodayPageData{
		BasePageData: types.BasePageData{Title: "今日请假"},
		Today:        today.Format(types.DateLayout),
		Records:      records,
	}

	if err := s.renderTemplate(w, "page.today", data); err != nil {
		s.logger.WithError(err).Error("failed to render today page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "service running on port %d", s.config.ServerPort)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.records.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("health check failed")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
