package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hpungsan/ideastore/internal/api"
	"github.com/hpungsan/ideastore/internal/blob"
	"github.com/hpungsan/ideastore/internal/config"
	"github.com/hpungsan/ideastore/internal/db"
	"github.com/hpungsan/ideastore/internal/errors"
	"github.com/hpungsan/ideastore/internal/logging"
	"github.com/hpungsan/ideastore/internal/ops"
)

// newTestAPI starts a real API server over SQLite and an in-memory blob store.
func newTestAPI(t *testing.T) *Client {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	svc := ops.NewService(db.NewRepository(database), blob.NewMemoryStore(), ops.Options{})
	handler := api.NewRouter(svc, api.RouterOptions{
		CORS:     config.CORSConfig{AllowedOrigins: "http://localhost:3000"},
		Logger:   logging.Discard(),
		Registry: prometheus.NewRegistry(),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(srv.URL+"/", srv.Client())
}

func assertKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := errors.From(err).Kind; got != kind {
		t.Errorf("Kind = %q, want %q (err: %v)", got, kind, err)
	}
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestAPI(t)

	saved, err := c.Save(ctx, "# Draft\nbody", "Überschrift & co")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Title != "Überschrift & co" {
		t.Errorf("Title = %q, want header override", saved.Title)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != saved.ID || entries[0].BlobID != saved.BlobID {
		t.Fatalf("List = %+v", entries)
	}
	if len(entries[0].Tags) != 1 || entries[0].Tags[0] != "idea" {
		t.Errorf("Tags = %v", entries[0].Tags)
	}

	got, err := c.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != saved.Title {
		t.Errorf("Get title = %q", got.Title)
	}

	text, err := c.Content(ctx, 0, saved.Title)
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	if text != "# Draft\nbody" {
		t.Errorf("Content = %q", text)
	}

	updated, err := c.Update(ctx, saved.ID, "# Final")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.BlobID != saved.BlobID || updated.Title != "Final" {
		t.Errorf("Update = %+v", updated)
	}

	text, err = c.Load(ctx, saved.BlobID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if text != "# Final" {
		t.Errorf("Load = %q", text)
	}

	deleted, err := c.Delete(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted.Success {
		t.Errorf("Delete = %+v", deleted)
	}

	_, err = c.Get(ctx, saved.ID)
	assertKind(t, err, errors.KindNotFound)
}

func TestClient_ServerErrors(t *testing.T) {
	ctx := context.Background()
	c := newTestAPI(t)

	_, err := c.Save(ctx, "   ", "")
	assertKind(t, err, errors.KindValidation)
	if msg := errors.From(err).Message; msg != "Empty or invalid input" {
		t.Errorf("Message = %q", msg)
	}

	_, err = c.Content(ctx, 0, "")
	assertKind(t, err, errors.KindValidation)

	_, err = c.Load(ctx, "missing-blob")
	assertKind(t, err, errors.KindNotFound)

	_, err = c.Delete(ctx, 12345)
	assertKind(t, err, errors.KindNotFound)
}

func TestClient_BadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/entries":
			_, _ = w.Write([]byte("<html>not json</html>"))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream exploded"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())

	_, err := c.List(context.Background())
	assertKind(t, err, errors.KindBadResponse)

	_, err = c.Get(context.Background(), 1)
	assertKind(t, err, errors.KindBadResponse)
}

func TestClient_StatusFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"API endpoint not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).List(context.Background())
	assertKind(t, err, errors.KindNotFound)
	if msg := errors.From(err).Message; msg != "API endpoint not found" {
		t.Errorf("Message = %q", msg)
	}
}

func TestClient_Transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).List(context.Background())
	assertKind(t, err, errors.KindTransport)
}
