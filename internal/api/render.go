package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hpungsan/ideastore/internal/errors"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Kind `json:"code,omitempty"`
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func renderText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// renderError writes err as {error, code}. The wrapped cause is logged, never sent.
func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	e := errors.From(err)

	level := slog.LevelWarn
	if e.Severity() == errors.SeverityCritical {
		level = slog.LevelError
	}
	attrs := []slog.Attr{
		slog.String("code", string(e.Kind)),
		slog.String("message", e.Message),
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFromContext(r.Context())),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("cause", e.Err))
	}
	h.log.LogAttrs(r.Context(), level, "request failed", attrs...)

	renderJSON(w, e.Status(), errorBody{Error: e.Message, Code: e.Kind})
}
