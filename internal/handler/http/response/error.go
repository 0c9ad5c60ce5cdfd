package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var sizeErr *http.MaxBytesError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &sizeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		BadRequest(w, "Invalid request body", nil)
		return
	}

	switch {
	// Punch
	case errors.Is(err, punch.ErrAlreadyPunched):
		Conflict(w, err.Error())

	// Request and approval
	case errors.Is(err, request.ErrRequestConflict),
		errors.Is(err, request.ErrApprovalAlreadyDecided),
		errors.Is(err, request.ErrRequestNotPending):
		Conflict(w, err.Error())
	case errors.Is(err, request.ErrRequestNotFound),
		errors.Is(err, request.ErrApprovalNotPending):
		NotFound(w, err.Error())
	case errors.Is(err, request.ErrOrgAccessDenied),
		errors.Is(err, request.ErrNotRequester),
		errors.Is(err, request.ErrRequestAccessDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, request.ErrNoApproverConfigured):
		slog.Error("approval routing misconfigured", "error", err)
		InternalServerError(w, err.Error())

	// Schedules and fences
	case errors.Is(err, schedule.ErrScheduleNotFound),
		errors.Is(err, schedule.ErrDefaultScheduleNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, schedule.ErrCannotDeleteDefault):
		Conflict(w, err.Error())
	case errors.Is(err, geofence.ErrGeoFenceNotFound):
		NotFound(w, err.Error())

	// Organization and users
	case errors.Is(err, organization.ErrOrganizationNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
