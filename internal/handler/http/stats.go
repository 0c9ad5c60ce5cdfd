package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/stats"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/export"
)

type StatsHandler interface {
	Monthly(w http.ResponseWriter, r *http.Request)
	ExportMonthly(w http.ResponseWriter, r *http.Request)
	Team(w http.ResponseWriter, r *http.Request)
	ExportTeam(w http.ResponseWriter, r *http.Request)
}

type StatsHandlerImpl struct {
	statsService stats.StatsService
	now          func() time.Time
}

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &StatsHandlerImpl{statsService: statsService, now: time.Now}
}

// Monthly implements StatsHandler.
func (h *StatsHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.statsService.Monthly(r.Context(), claims.UserID, claims.OrgID, stats.MonthQuery{Month: r.URL.Query().Get("month")})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ExportMonthly implements StatsHandler.
func (h *StatsHandlerImpl) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	q := stats.MonthQuery{Month: r.URL.Query().Get("month")}
	result, err := h.statsService.Monthly(r.Context(), claims.UserID, claims.OrgID, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteMonthly(&buf, result, h.now()); err != nil {
		slog.Error("failed to render monthly workbook", "user_id", claims.UserID, "error", err)
		response.InternalServerError(w, "Failed to generate export")
		return
	}
	writeAttachment(w, export.MonthlyFilename(q.Month, claims.UserID), &buf)
}

// Team implements StatsHandler.
func (h *StatsHandlerImpl) Team(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.statsService.Team(r.Context(), claims.OrgID, stats.MonthQuery{Month: r.URL.Query().Get("month")})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ExportTeam implements StatsHandler.
func (h *StatsHandlerImpl) ExportTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	q := stats.MonthQuery{Month: r.URL.Query().Get("month")}
	result, err := h.statsService.Team(r.Context(), claims.OrgID, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTeam(&buf, q.Month, result); err != nil {
		slog.Error("failed to render team workbook", "org_id", claims.OrgID, "error", err)
		response.InternalServerError(w, "Failed to generate export")
		return
	}
	writeAttachment(w, export.TeamFilename(q.Month), &buf)
}

// writeAttachment sends a fully rendered workbook.
func writeAttachment(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
