package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate checks enumerations and per-backend required fields.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url (DATABASE_URL) is required for postgres"))
		}
		if c.Database.MaxConns < 1 {
			errs = append(errs, errors.New("database.max_conns must be at least 1"))
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, errors.New("database.min_conns must be between 0 and max_conns"))
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver))
	}

	switch c.Blob.Backend {
	case BackendDrive:
		if c.Blob.Drive.CredentialsFile == "" && c.Blob.Drive.CredentialsJSON == "" {
			errs = append(errs, errors.New("blob.drive: credentials_file or credentials_json is required"))
		}
	case BackendS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob.s3.bucket is required"))
		}
		if c.Blob.S3.PresignTTL <= 0 {
			errs = append(errs, errors.New("blob.s3.presign_ttl must be positive"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("blob.backend: unknown backend %q", c.Blob.Backend))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if !slices.Contains([]string{"json", "text"}, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	if c.Entry.MaxContentBytes < 0 {
		errs = append(errs, errors.New("entry.max_content_bytes must not be negative"))
	}

	return errors.Join(errs...)
}
