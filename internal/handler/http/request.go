package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// decodeJSON reads the request body into dst and answers 400 when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("Failed to decode request body", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func queryPtr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

func pagination(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", defaultPage)
	if page < 1 {
		page = defaultPage
	}
	limit = queryInt(r, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
