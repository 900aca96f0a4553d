package api

import (
	"encoding/json"
	"net/http"
)

// graphQLError is a single entry in a GraphQL "errors" array.
type graphQLError struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a request-level failure in GraphQL response shape so
// clients can handle transport and execution errors the same way.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"errors": []graphQLError{{Message: message}},
	})
}
