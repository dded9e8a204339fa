package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
	"github.com/hpungsan/ideastore/internal/ops"
)

// TitleHeader optionally overrides the derived title on save. The value is URL-encoded.
const TitleHeader = "X-Entry-Title"

const msgNotFoundRoute = "API endpoint not found"

// Handlers serves the entry API on top of an ops.Service.
type Handlers struct {
	svc      *ops.Service
	log      *slog.Logger
	maxBytes int64
}

// readBody reads the raw request body. A body over the service's content
// limit is rejected whole; it is never truncated.
func (h *Handlers) readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	body := r.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return "", errors.NewValidation(fmt.Sprintf("Content exceeds %d bytes", h.maxBytes))
		}
		return "", errors.NewValidation("Failed to read request body")
	}
	return string(data), nil
}

// HandleSave handles POST /save.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	text, err := h.readBody(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	title := r.Header.Get(TitleHeader)
	if title != "" {
		if decoded, err := url.QueryUnescape(title); err == nil {
			title = decoded
		}
	}

	out, err := h.svc.Save(r.Context(), ops.SaveInput{Text: text, Title: title})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleList handles GET /entries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if entries == nil {
		entries = []entry.Entry{}
	}
	renderJSON(w, http.StatusOK, entries)
}

// HandleGet handles GET /entries/{id}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := ops.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, e)
}

// HandleLoad handles GET /load/{blobId}.
func (h *Handlers) HandleLoad(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.Load(r.Context(), mux.Vars(r)["blobId"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderText(w, "text/plain; charset=utf-8", text)
}

// HandleContent handles GET /content?id=&title=.
func (h *Handlers) HandleContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var input ops.ContentInput
	if raw := q.Get("id"); raw != "" {
		id, err := ops.ParseID(raw)
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		input.ID = id
	}
	input.Title = q.Get("title")

	out, err := h.svc.Content(r.Context(), input)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderText(w, "text/plain; charset=utf-8", out.Text)
}

// HandleUpdate handles PUT /update/{id}.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := ops.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	text, err := h.readBody(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	out, err := h.svc.Update(r.Context(), ops.UpdateInput{ID: id, Text: text})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /delete/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ops.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	out, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandlePreview handles GET /entries/{id}/preview.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id, err := ops.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	html, err := h.svc.Preview(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderText(w, "text/html; charset=utf-8", html)
}

// HandleHealthz handles GET /healthz.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Health(r.Context()); err != nil {
		h.log.ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
		renderJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleNotFound answers every unmatched path or method.
func (h *Handlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusNotFound, errorBody{Error: msgNotFoundRoute})
}
