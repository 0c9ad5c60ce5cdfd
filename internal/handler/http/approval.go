package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ApprovalHandler interface {
	Pending(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type ApprovalHandlerImpl struct {
	approvalService request.ApprovalService
}

func NewApprovalHandler(approvalService request.ApprovalService) ApprovalHandler {
	return &ApprovalHandlerImpl{approvalService: approvalService}
}

// Pending implements ApprovalHandler.
func (h *ApprovalHandlerImpl) Pending(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.approvalService.Pending(r.Context(), claims.UserID, claims.OrgID,
		queryInt(r, "page", 1), queryInt(r, "page_size", 20))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result.Items, pageMeta(result.Page, result.PageSize, result.Total, result.TotalPages))
}

// Decide implements ApprovalHandler.
func (h *ApprovalHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.DecisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.RequestID = chi.URLParam(r, "requestId")

	result, err := h.approvalService.Decide(r.Context(), claims.UserID, claims.OrgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Decision recorded", result)
}
