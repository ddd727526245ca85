package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/service"
)

// UserHeader carries the caller's identity on item, booking and
// request endpoints.
const UserHeader = "X-Sharer-User-Id"

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps the typed service failure onto the wire: each
// kind keeps its own body key so clients can tell them apart.
func writeServiceError(w http.ResponseWriter, err error) {
	e, ok := service.AsError(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	switch e.Kind {
	case service.KindNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"noContentException": e.Message})
	case service.KindConflict:
		writeJSON(w, http.StatusConflict, map[string]string{"conflictException": e.Message})
	case service.KindValidation:
		writeJSON(w, http.StatusBadRequest, e.Fields)
	default:
		writeError(w, http.StatusBadRequest, e.Message)
	}
}

// userID extracts and parses the identity header. ok=false means the
// 400 response has already been written.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.Header.Get(UserHeader))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "X-Sharer-User-Id header is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "X-Sharer-User-Id header must be an integer")
		return 0, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id in path")
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. ok=false means
// the 400 response has already been written.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return nil, false
	}
	return &v, true
}

// decodeBody decodes a JSON body into dst. false means the 400
// response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body is empty")
		} else {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
		}
		return false
	}
	return true
}
