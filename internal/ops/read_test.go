package ops

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/ideastore/internal/errors"
)

func TestList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	var ids []int64
	for _, text := range []string{"# first", "# second", "# third"} {
		out, err := env.svc.Save(ctx, SaveInput{Text: text})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		ids = append(ids, out.ID)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := env.svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i, want := range []int64{ids[2], ids[1], ids[0]} {
		if entries[i].ID != want {
			t.Errorf("entries[%d].ID = %d, want %d", i, entries[i].ID, want)
		}
	}
}

func TestList_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	svc := NewService(&faultyRepo{EntryRepository: env.repo, listErr: fmt.Errorf("down")}, env.blobs, Options{})

	_, err := svc.List(context.Background())
	assertKind(t, err, errors.KindStoreUnavailable, "Failed to fetch entries")
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	out, err := env.svc.Save(ctx, SaveInput{Text: "# Hello"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	e, err := env.svc.Get(ctx, out.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if e.Title != "Hello" || e.BlobID != out.BlobID {
		t.Errorf("Get = %+v", e)
	}

	_, err = env.svc.Get(ctx, out.ID+100)
	assertKind(t, err, errors.KindNotFound, "Entry not found")
}

func TestGet_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	svc := NewService(&faultyRepo{EntryRepository: env.repo, getErr: fmt.Errorf("down")}, env.blobs, Options{})

	_, err := svc.Get(context.Background(), 1)
	assertKind(t, err, errors.KindStoreUnavailable, "Failed to get entry")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	out, err := env.svc.Save(ctx, SaveInput{Text: "héllo wörld"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	text, err := env.svc.Load(ctx, out.BlobID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if text != "héllo wörld" {
		t.Errorf("Load = %q", text)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Load(ctx, "")
	assertKind(t, err, errors.KindValidation, "")

	_, err = env.svc.Load(ctx, "missing")
	assertKind(t, err, errors.KindNotFound, "File not found")

	failing := NewService(env.repo, &faultyBlobs{BlobStore: env.blobs, downloadErr: fmt.Errorf("timeout")}, Options{})
	_, err = failing.Load(ctx, "any")
	assertKind(t, err, errors.KindRemoteBlob, "Failed to load file")

	corrupt := NewService(env.repo, &faultyBlobs{BlobStore: env.blobs, downloaded: []byte("not gzip")}, Options{})
	_, err = corrupt.Load(ctx, "any")
	assertKind(t, err, errors.KindInternal, "Failed to load file")
}

func TestContent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	older, err := env.svc.Save(ctx, SaveInput{Text: "# Shared\nolder"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	newer, err := env.svc.Save(ctx, SaveInput{Text: "# Shared\nnewer"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Run("by id", func(t *testing.T) {
		out, err := env.svc.Content(ctx, ContentInput{ID: older.ID})
		if err != nil {
			t.Fatalf("Content failed: %v", err)
		}
		if out.Text != "# Shared\nolder" || out.ID != older.ID || out.BlobID != older.BlobID {
			t.Errorf("Content = %+v", out)
		}
	})

	t.Run("by title picks newest", func(t *testing.T) {
		out, err := env.svc.Content(ctx, ContentInput{Title: "Shared"})
		if err != nil {
			t.Fatalf("Content failed: %v", err)
		}
		if out.ID != newer.ID {
			t.Errorf("ID = %d, want newest %d", out.ID, newer.ID)
		}
	})

	t.Run("id wins over title", func(t *testing.T) {
		out, err := env.svc.Content(ctx, ContentInput{ID: older.ID, Title: "Shared"})
		if err != nil {
			t.Fatalf("Content failed: %v", err)
		}
		if out.ID != older.ID {
			t.Errorf("ID = %d, want %d", out.ID, older.ID)
		}
	})

	t.Run("title is exact match", func(t *testing.T) {
		_, err := env.svc.Content(ctx, ContentInput{Title: "shared"})
		assertKind(t, err, errors.KindNotFound, "Entry not found")
	})

	t.Run("neither given", func(t *testing.T) {
		_, err := env.svc.Content(ctx, ContentInput{})
		assertKind(t, err, errors.KindValidation, "")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.svc.Content(ctx, ContentInput{ID: 9999})
		assertKind(t, err, errors.KindNotFound, "Entry not found")
	})
}

func TestContent_MissingBlobReference(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	e, err := env.repo.Insert(ctx, "", "", "Orphan row", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	_, err = env.svc.Content(ctx, ContentInput{ID: e.ID})
	assertKind(t, err, errors.KindNotFound, "File not found")
}

func TestPreview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	out, err := env.svc.Save(ctx, SaveInput{Text: "# Heading\n\n**bold** <script>x</script>"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	html, err := env.svc.Preview(ctx, out.ID)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if !strings.Contains(html, "<h1>Heading</h1>") {
		t.Errorf("missing heading: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("missing bold: %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw HTML should not pass through: %s", html)
	}

	_, err = env.svc.Preview(ctx, 9999)
	assertKind(t, err, errors.KindNotFound, "Entry not found")
}
