package config

import (
	"strings"
	"time"
)

// Config is the root ideastore configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Blob     BlobConfig     `yaml:"blob"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
	Entry    EntryConfig    `yaml:"entry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig selects and tunes the metadata store.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"postgres"`
	URL             string        `yaml:"url"                env:"DATABASE_URL"`
	SQLitePath      string        `yaml:"sqlite_path"        env:"SQLITE_PATH"                 env-default:"./data"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Blob backends.
const (
	BackendDrive  = "drive"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// BlobConfig selects the content store.
type BlobConfig struct {
	Backend string      `yaml:"backend" env:"BLOB_BACKEND" env-default:"drive"`
	Drive   DriveConfig `yaml:"drive"`
	S3      S3Config    `yaml:"s3"`
}

// DriveConfig holds Google Drive service-account settings.
// CredentialsJSON takes precedence over CredentialsFile.
type DriveConfig struct {
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
	CredentialsJSON string `yaml:"credentials_json" env:"GOOGLE_SERVICE_JSON"`
	FolderID        string `yaml:"folder_id"        env:"DRIVE_FOLDER_ID"`
	Endpoint        string `yaml:"endpoint"         env:"DRIVE_ENDPOINT"`
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Bucket       string        `yaml:"bucket"         env:"S3_BUCKET"`
	Region       string        `yaml:"region"         env:"S3_REGION"         env-default:"us-east-1"`
	Endpoint     string        `yaml:"endpoint"       env:"S3_ENDPOINT"`
	AccessKey    string        `yaml:"access_key"     env:"S3_ACCESS_KEY"`
	SecretKey    string        `yaml:"secret_key"     env:"S3_SECRET_KEY"`
	UsePathStyle bool          `yaml:"use_path_style" env:"S3_USE_PATH_STYLE" env-default:"false"`
	PresignTTL   time.Duration `yaml:"presign_ttl"    env:"S3_PRESIGN_TTL"    env-default:"15m"`
}

// CORSConfig holds CORS settings. List values are comma-separated.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"https://roeiavneri.github.io,https://idea-store-project.onrender.com,http://localhost:3000,http://127.0.0.1:3000,http://localhost:5500"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type,Authorization,X-Entry-Title"`
}

// Origins returns the parsed origin list.
func (c CORSConfig) Origins() []string { return splitList(c.AllowedOrigins) }

// Methods returns the parsed method list.
func (c CORSConfig) Methods() []string { return splitList(c.AllowedMethods) }

// Headers returns the parsed header list.
func (c CORSConfig) Headers() []string { return splitList(c.AllowedHeaders) }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// EntryConfig holds entry defaults.
type EntryConfig struct {
	DefaultTags     string `yaml:"default_tags"      env:"ENTRY_DEFAULT_TAGS"      env-default:"idea"`
	MaxContentBytes int    `yaml:"max_content_bytes" env:"ENTRY_MAX_CONTENT_BYTES" env-default:"5242880"`
}

// Tags returns the parsed default tag list.
func (c EntryConfig) Tags() []string { return splitList(c.DefaultTags) }

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
