package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=4000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// FrontendURL is the single origin allowed to call the API with credentials.
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:5173"`

	// DeleteRequiresAuthor limits DELETE /posts/:id to the post's author.
	DeleteRequiresAuthor bool `env:"POSTS_DELETE_REQUIRES_AUTHOR, default=false"`

	Auth    AuthConfig
	Uploads UploadConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Minio   MinioConfig
}

type AuthConfig struct {
	// JWTSecret has no default: a deployment without one must not start.
	JWTSecret    string        `env:"JWT_SECRET, required"`
	Issuer       string        `env:"JWT_ISSUER,    default=blog-api"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type UploadConfig struct {
	Backend  string `env:"STORAGE_BACKEND,  default=local"`
	Dir      string `env:"UPLOAD_DIR,       default=uploads"`
	MaxBytes int64  `env:"MAX_UPLOAD_BYTES, default=5242880"`
	Janitors int    `env:"COVER_JANITORS,   default=2"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET,     default=covers"`
	Region    string `env:"MINIO_REGION"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// IsDevelopment reports whether the service runs in a developer setup.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig,
// after merging a .env file from the working directory when one exists.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Uploads.Backend {
	case BackendLocal, BackendMinio:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Uploads.Backend)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Uploads.MaxBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
