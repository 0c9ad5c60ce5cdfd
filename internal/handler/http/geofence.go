package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type GeoFenceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type GeoFenceHandlerImpl struct {
	geoFenceService geofence.GeoFenceService
}

func NewGeoFenceHandler(geoFenceService geofence.GeoFenceService) GeoFenceHandler {
	return &GeoFenceHandlerImpl{geoFenceService: geoFenceService}
}

func (h *GeoFenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.geoFenceService.List(r.Context(), claims.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *GeoFenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var req geofence.CreateGeoFenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.geoFenceService.Create(r.Context(), claims.OrgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Geofence created successfully", result)
}

func (h *GeoFenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	var req geofence.UpdateGeoFenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.geoFenceService.Update(r.Context(), claims.OrgID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Geofence updated successfully", result)
}

func (h *GeoFenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.geoFenceService.Delete(r.Context(), claims.OrgID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Geofence deleted successfully", nil)
}
