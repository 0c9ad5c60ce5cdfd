package http

import (
	"net"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
)

type PunchHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	CurrentSchedule(w http.ResponseWriter, r *http.Request)
}

type PunchHandlerImpl struct {
	punchService punch.PunchService
}

func NewPunchHandler(punchService punch.PunchService) PunchHandler {
	return &PunchHandlerImpl{punchService: punchService}
}

// Punch implements PunchHandler.
func (h *PunchHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var req punch.CreatePunchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if ip := remoteIP(r); ip != "" {
		req.IPAddress = &ip
	}

	result, err := h.punchService.Punch(r.Context(), claims.UserID, claims.OrgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// Today implements PunchHandler.
func (h *PunchHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.punchService.Today(r.Context(), claims.UserID, claims.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// History implements PunchHandler.
func (h *PunchHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	filter := punch.HistoryFilter{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	}

	result, err := h.punchService.History(r.Context(), claims.UserID, claims.OrgID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result.Items, pageMeta(result.Page, result.PageSize, result.Total, result.TotalPages))
}

// CurrentSchedule implements PunchHandler.
func (h *PunchHandlerImpl) CurrentSchedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.punchService.CurrentSchedule(r.Context(), claims.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.SuccessWithMessage(w, "No work schedule configured", nil)
		return
	}
	response.Success(w, result)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
