package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/hpungsan/ideastore/internal/config"
)

// DriveStore keeps blobs as files in Google Drive, authenticated as a
// service account limited to the drive.file scope.
type DriveStore struct {
	svc      *drive.Service
	folderID string
}

// NewDriveStore builds a Drive client from config. Extra options are appended
// last, so callers (tests) can override endpoint and authentication.
func NewDriveStore(ctx context.Context, cfg config.DriveConfig, opts ...option.ClientOption) (*DriveStore, error) {
	clientOpts := []option.ClientOption{option.WithScopes(drive.DriveFileScope)}
	switch {
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveStore{svc: svc, folderID: cfg.FolderID}, nil
}

// Upload creates a new Drive file named label.
func (d *DriveStore) Upload(ctx context.Context, label string, data []byte) (Object, error) {
	f := &drive.File{Name: label}
	if d.folderID != "" {
		f.Parents = []string{d.folderID}
	}

	created, err := d.svc.Files.Create(f).
		Media(bytes.NewReader(data), googleapi.ContentType(ContentType(label))).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, driveErr("upload", label, err)
	}
	return Object{ID: created.Id, ViewLink: created.WebViewLink}, nil
}

// Download fetches the raw file bytes.
func (d *DriveStore) Download(ctx context.Context, id string) ([]byte, error) {
	resp, err := d.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, driveErr("download", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drive download %s: read body: %w", id, err)
	}
	return data, nil
}

// Update replaces the content of an existing file, keeping its ID.
func (d *DriveStore) Update(ctx context.Context, id string, data []byte, label string) (Object, error) {
	f := &drive.File{Name: label}

	updated, err := d.svc.Files.Update(id, f).
		Media(bytes.NewReader(data), googleapi.ContentType(ContentType(label))).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, driveErr("update", id, err)
	}
	return Object{ID: updated.Id, ViewLink: updated.WebViewLink}, nil
}

// Delete permanently removes a file.
func (d *DriveStore) Delete(ctx context.Context, id string) error {
	if err := d.svc.Files.Delete(id).Context(ctx).Do(); err != nil {
		return driveErr("delete", id, err)
	}
	return nil
}

func driveErr(op, ref string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("drive %s %s: %w", op, ref, ErrNotFound)
	}
	return fmt.Errorf("drive %s %s: %w", op, ref, err)
}
