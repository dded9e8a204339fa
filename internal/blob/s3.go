package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/hpungsan/ideastore/internal/config"
)

// S3Store keeps blobs in an S3-compatible bucket (AWS, MinIO).
// The object key doubles as the blob ID; view links are presigned GET URLs.
type S3Store struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	now        func() time.Time
}

// NewS3Store builds an S3 client from config. Retries are disabled: a failed
// call surfaces to the caller as-is.
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		o.Retryer = aws.NopRetryer{}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Store{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
		now:        time.Now,
	}, nil
}

// StorageKey builds a dated, collision-free object key for a label.
func StorageKey(now time.Time, label string) string {
	ext := path.Ext(label)
	if ext == "" {
		ext = ".gz"
	}
	return fmt.Sprintf("entries/%d/%d/%d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

// Upload stores data under a fresh key. The label is kept as object metadata.
func (s *S3Store) Upload(ctx context.Context, label string, data []byte) (Object, error) {
	key := StorageKey(s.now(), label)
	if err := s.put(ctx, key, label, data); err != nil {
		return Object{}, s3Err("upload", key, err)
	}
	return s.object(ctx, key)
}

// Download fetches the object bytes.
func (s *S3Store) Download(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return nil, s3Err("download", id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 download %s: read body: %w", id, err)
	}
	return data, nil
}

// Update overwrites an existing object in place. A missing key is ErrNotFound;
// PutObject alone would silently create it.
func (s *S3Store) Update(ctx context.Context, id string, data []byte, label string) (Object, error) {
	if err := s.head(ctx, id); err != nil {
		return Object{}, s3Err("update", id, err)
	}
	if err := s.put(ctx, id, label, data); err != nil {
		return Object{}, s3Err("update", id, err)
	}
	return s.object(ctx, id)
}

// Delete removes an object. DeleteObject succeeds on missing keys, so existence
// is checked first.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	if err := s.head(ctx, id); err != nil {
		return s3Err("delete", id, err)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return s3Err("delete", id, err)
	}
	return nil
}

func (s *S3Store) put(ctx context.Context, key, label string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(ContentType(label)),
		Metadata:      map[string]string{"label": label},
	})
	return err
}

func (s *S3Store) head(ctx context.Context, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Store) object(ctx context.Context, key string) (Object, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return Object{}, fmt.Errorf("s3 presign %s: %w", key, err)
	}
	return Object{ID: key, ViewLink: req.URL}, nil
}

func s3Err(op, key string, err error) error {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &nsk), errors.As(err, &nf):
		return fmt.Errorf("s3 %s %s: %w", op, key, ErrNotFound)
	case errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound"):
		return fmt.Errorf("s3 %s %s: %w", op, key, ErrNotFound)
	}
	return fmt.Errorf("s3 %s %s: %w", op, key, err)
}
