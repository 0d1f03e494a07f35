package proxy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of errors the proxy produces itself. It has the
// shape of the API's own errors so clients parse both the same way.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON encodes data with status. Encoding failures are logged only,
// since the status line has already been sent.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}

// writeStatus answers with status and its standard text as the detail.
func writeStatus(ctx context.Context, w http.ResponseWriter, status int) {
	writeJSON(ctx, w, ErrorResponse{Detail: http.StatusText(status)}, status)
}
