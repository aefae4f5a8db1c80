package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/escolar-hub/escolar-report-engine/internal/application/report"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
	"github.com/escolar-hub/escolar-report-engine/pkg/timeutil"
)

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store != nil {
		if err := s.deps.Store.Ping(r.Context()); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable",
				"grade store is not reachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Report downloads
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleBoletin(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	doc, err := s.deps.Reports.BuildBoletin(r.Context(),
		chi.URLParam(r, "courseCode"), chi.URLParam(r, "studentID"), period)
	s.respond(w, r, doc, err)
}

func (s *Server) handleBoletinBatch(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	doc, err := s.deps.Reports.BuildBoletinBatch(r.Context(), chi.URLParam(r, "courseCode"), period)
	s.respond(w, r, doc, err)
}

func (s *Server) handleCentralizer(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	regulatory := strings.EqualFold(r.URL.Query().Get("format"), "minedu")
	doc, err := s.deps.Reports.BuildCentralizer(r.Context(), chi.URLParam(r, "courseCode"), period, regulatory)
	s.respond(w, r, doc, err)
}

func (s *Server) handleCourseRanking(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	// repeated ?course=5A&course=6A narrows the scope; none means all
	courses := r.URL.Query()["course"]
	doc, err := s.deps.Reports.BuildCourseRanking(r.Context(), courses, period)
	s.respond(w, r, doc, err)
}

func (s *Server) handleLevelRanking(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	doc, err := s.deps.Reports.BuildLevelBestRanking(r.Context(), period)
	s.respond(w, r, doc, err)
}

func (s *Server) handleSiblings(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	doc, err := s.deps.Reports.BuildSiblings(r.Context(), period)
	s.respond(w, r, doc, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// period reads the ?period= query parameter. Absent, it defaults to the
// trimester the school calendar places today in.
func (s *Server) period(w http.ResponseWriter, r *http.Request) (grade.Period, bool) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return grade.Period(timeutil.CurrentTrimester(time.Now())), true
	}
	p, err := grade.ParsePeriod(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_period",
			fmt.Sprintf("unknown grading period %q, want T1..T3 or anual", raw))
		return 0, false
	}
	return p, true
}

// respond streams a generated document, or maps the build error to a status.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, doc *report.Document, err error) {
	if err != nil {
		s.writeBuildError(w, r, err)
		return
	}

	for _, warning := range doc.Warnings {
		w.Header().Add("X-Report-Warning", warning)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		s.logger.Warn("response write failed",
			logger.OutputFile(doc.Filename), logger.Err(err))
	}
}

// writeBuildError maps domain errors onto HTTP statuses.
func (s *Server) writeBuildError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrNoGrades):
		writeJSONError(w, http.StatusNotFound, "no_grades", err.Error())
	case errors.Is(err, shared.ErrInvalidPeriod), errors.Is(err, shared.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, shared.ErrStoreUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
	default:
		s.logger.Error("report build failed",
			logger.String("path", r.URL.Path), logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error",
			"report generation failed")
	}
}
