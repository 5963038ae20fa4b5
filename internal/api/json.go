package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"arena-chess/internal/apierr"
	"arena-chess/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates err into the {error, message} envelope from
// section 7. apierr.Error values carry their own status and
// store.ErrNotFound maps to 404; anything else is an infrastructure
// failure and is logged rather than leaked to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := err.(*apierr.Error); ok {
		writeJSON(w, apiErr.Status(), map[string]any{
			"error":   true,
			"message": apiErr.Message,
		})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   true,
			"message": "not found",
		})
		return
	}
	s.Log.Error("unhandled request error", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   true,
		"message": "internal error",
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apierr.Validation("missing request body")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apierr.Validation("malformed request body: %v", err)
	}
	return nil
}
