package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type RequestHandlerImpl struct {
	requestService request.RequestService
}

func NewRequestHandler(requestService request.RequestService) RequestHandler {
	return &RequestHandlerImpl{requestService: requestService}
}

// Create implements RequestHandler.
func (h *RequestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.requestService.Create(r.Context(), claims.UserID, claims.OrgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Request submitted successfully", result)
}

// List implements RequestHandler.
func (h *RequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	filter := request.ListFilter{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
		Status:   queryOptional(r, "status"),
		Type:     queryOptional(r, "type"),
	}

	result, err := h.requestService.List(r.Context(), claims.UserID, claims.OrgID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result.Items, pageMeta(result.Page, result.PageSize, result.Total, result.TotalPages))
}

// Get implements RequestHandler.
func (h *RequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.requestService.Get(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.OrgID, claims.Roles)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Cancel implements RequestHandler.
func (h *RequestHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.requestService.Cancel(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.OrgID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Request canceled", nil)
}
