package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// JSONResponse writes data as a JSON body.
func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("writing JSON response", "error", err)
	}
}

// TextResponse writes a plain text body.
func TextResponse(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("writing text response", "error", err)
	}
}

// ErrorResponse logs err, when set, and writes message as the body.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		slog.Error(message, "request_id", RequestIDFrom(r.Context()), "error", err)
	}
	TextResponse(w, status, message)
}

// ZipResponse writes data as a ZIP attachment named filename.
func ZipResponse(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("writing ZIP response", "error", err)
	}
}
