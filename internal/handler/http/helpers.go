package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
)

const maxBodyBytes = 1 << 20

// caller writes 401 and reports false when the request carries no identity.
func caller(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		response.Unauthorized(w, "missing caller identity")
	}
	return claims, ok
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.HandleError(w, err)
		return false
	}
	return true
}

// queryInt returns fallback for a missing or malformed parameter.
func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func queryOptional(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func pageMeta(page, pageSize int, total int64, totalPages int) *response.Meta {
	return &response.Meta{
		Page:       page,
		Limit:      pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
