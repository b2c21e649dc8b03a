package http

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeFail reports a business failure. These are part of the API contract
// (bad code, locked resource, missing user) and carry 200 with a structured
// body, unlike infrastructure errors which surface as 5xx.
func writeFail(w http.ResponseWriter, msg string) {
	writeJSON(w, map[string]any{"success": false, "error": msg})
}
