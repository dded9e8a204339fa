package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"github.com/hpungsan/ideastore/internal/config"
)

type fakeFile struct {
	name        string
	parents     []string
	contentType string
	data        []byte
}

// fakeDrive implements the subset of the Drive v3 REST surface DriveStore uses.
type fakeDrive struct {
	mu     sync.Mutex
	files  map[string]*fakeFile
	next   int
	status int // when non-zero every request fails with this code
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{files: make(map[string]*fakeFile)}
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		writeDriveError(w, f.status, "forced failure")
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/upload/drive/v3/files":
		meta, data, ct, err := readMultipart(r)
		if err != nil {
			writeDriveError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.next++
		id := fmt.Sprintf("file-%d", f.next)
		f.files[id] = &fakeFile{name: meta.Name, parents: meta.Parents, contentType: ct, data: data}
		writeDriveFile(w, id)

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/upload/drive/v3/files/"):
		id := strings.TrimPrefix(r.URL.Path, "/upload/drive/v3/files/")
		file, ok := f.files[id]
		if !ok {
			writeDriveError(w, http.StatusNotFound, "File not found: "+id)
			return
		}
		meta, data, ct, err := readMultipart(r)
		if err != nil {
			writeDriveError(w, http.StatusBadRequest, err.Error())
			return
		}
		if meta.Name != "" {
			file.name = meta.Name
		}
		file.data = data
		file.contentType = ct
		writeDriveFile(w, id)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/drive/v3/files/"):
		id := strings.TrimPrefix(r.URL.Path, "/drive/v3/files/")
		file, ok := f.files[id]
		if !ok {
			writeDriveError(w, http.StatusNotFound, "File not found: "+id)
			return
		}
		if r.URL.Query().Get("alt") != "media" {
			writeDriveError(w, http.StatusBadRequest, "expected alt=media")
			return
		}
		w.Header().Set("Content-Type", file.contentType)
		_, _ = w.Write(file.data)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/drive/v3/files/"):
		id := strings.TrimPrefix(r.URL.Path, "/drive/v3/files/")
		if _, ok := f.files[id]; !ok {
			writeDriveError(w, http.StatusNotFound, "File not found: "+id)
			return
		}
		delete(f.files, id)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeDriveError(w, http.StatusBadRequest, "unexpected "+r.Method+" "+r.URL.Path)
	}
}

type fileMeta struct {
	Name    string   `json:"name"`
	Parents []string `json:"parents"`
}

// readMultipart parses a multipart/related upload: JSON metadata, then media.
func readMultipart(r *http.Request) (fileMeta, []byte, string, error) {
	var meta fileMeta
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return meta, nil, "", err
	}
	mr := multipart.NewReader(r.Body, params["boundary"])

	part, err := mr.NextPart()
	if err != nil {
		return meta, nil, "", fmt.Errorf("metadata part: %w", err)
	}
	if err := json.NewDecoder(part).Decode(&meta); err != nil {
		return meta, nil, "", fmt.Errorf("metadata json: %w", err)
	}

	part, err = mr.NextPart()
	if err != nil {
		return meta, nil, "", fmt.Errorf("media part: %w", err)
	}
	data, err := io.ReadAll(part)
	if err != nil {
		return meta, nil, "", err
	}
	return meta, data, part.Header.Get("Content-Type"), nil
}

func writeDriveFile(w http.ResponseWriter, id string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"id":          id,
		"webViewLink": "https://drive.google.com/file/d/" + id + "/view",
	})
}

func writeDriveError(w http.ResponseWriter, code int, msg string) {
	reason := "badRequest"
	if code == http.StatusNotFound {
		reason = "notFound"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
			"errors":  []map[string]any{{"reason": reason, "message": msg}},
		},
	})
}

func newTestDriveStore(t *testing.T, fake *fakeDrive, folder string) *DriveStore {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewDriveStore(context.Background(),
		config.DriveConfig{FolderID: folder},
		option.WithEndpoint(srv.URL+"/drive/v3/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewDriveStore failed: %v", err)
	}
	return store
}

func TestDriveStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDrive()
	store := newTestDriveStore(t, fake, "folder-1")

	obj, err := store.Upload(ctx, "entry-abc.gz", []byte("gzbytes"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if obj.ID != "file-1" {
		t.Errorf("ID = %q, want file-1", obj.ID)
	}
	if obj.ViewLink != "https://drive.google.com/file/d/file-1/view" {
		t.Errorf("ViewLink = %q", obj.ViewLink)
	}

	file := fake.files["file-1"]
	if file.name != "entry-abc.gz" {
		t.Errorf("remote name = %q, want entry-abc.gz", file.name)
	}
	if len(file.parents) != 1 || file.parents[0] != "folder-1" {
		t.Errorf("parents = %v, want [folder-1]", file.parents)
	}
	if file.contentType != "application/gzip" {
		t.Errorf("content type = %q, want application/gzip", file.contentType)
	}

	data, err := store.Download(ctx, obj.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "gzbytes" {
		t.Errorf("Download = %q, want gzbytes", data)
	}

	updated, err := store.Update(ctx, obj.ID, []byte("newbytes"), "entry-abc.gz")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != obj.ID {
		t.Errorf("Update returned ID %q, want %q", updated.ID, obj.ID)
	}
	data, _ = store.Download(ctx, obj.ID)
	if string(data) != "newbytes" {
		t.Errorf("Download after update = %q, want newbytes", data)
	}

	if err := store.Delete(ctx, obj.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(fake.files) != 0 {
		t.Errorf("fake still holds %d files", len(fake.files))
	}
}

func TestDriveStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestDriveStore(t, newFakeDrive(), "")

	if _, err := store.Download(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Download: err = %v, want ErrNotFound", err)
	}
	if _, err := store.Update(ctx, "gone", []byte("x"), "entry-x.gz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: err = %v, want ErrNotFound", err)
	}
}

func TestDriveStore_RemoteFailure(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDrive()
	fake.status = http.StatusForbidden
	store := newTestDriveStore(t, fake, "")

	_, err := store.Upload(ctx, "entry-x.gz", []byte("x"))
	if err == nil {
		t.Fatal("expected upload error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("403 must not map to ErrNotFound: %v", err)
	}

	if err := store.Delete(ctx, "file-1"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: err = %v, want non-NotFound failure", err)
	}
}
