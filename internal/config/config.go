package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
	EnvTest = "test"
)

type Config struct {
	Env  string `envconfig:"APP_ENV" default:"dev" validate:"oneof=dev prod test"`
	Port int    `envconfig:"PORT" default:"1480" validate:"min=1,max=65535"`

	DBURL         string `envconfig:"DATABASE_URL" validate:"required,url"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	// JWT
	JWTSecret   string   `envconfig:"JWT_SECRET" validate:"required,min=32"`
	JWTTTL      Duration `envconfig:"JWT_EXPIRES_IN" default:"24h" validate:"gt=0"`
	JWTAudience string   `envconfig:"JWT_AUDIENCE" default:"shop-api" validate:"required"`
	JWTIssuer   string   `envconfig:"JWT_ISSUER" default:"shop-backend" validate:"required"`

	// empty list means every origin is allowed
	CORSOrigins []string `envconfig:"CORS_ORIGIN" validate:"omitempty,dive,url"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0" validate:"min=0"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// bootstrap admin, skipped when email or password is empty
	AdminEmail    string `envconfig:"ADMIN_EMAIL" validate:"omitempty,email"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" validate:"omitempty,min=8"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
}

// Load reads the optional .env file and the process environment, then validates the result.
// Any error here must stop the process before it starts listening.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	cfg.CORSOrigins = cleanOrigins(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", envName(fe.StructField()), fe.Tag()))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Duration reads Go duration strings ("90m", "24h") and whole days ("1d", "7d").
type Duration time.Duration

// Decode is called by envconfig.
func (d *Duration) Decode(value string) error {
	value = strings.TrimSpace(value)

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid day count %q", value)
		}
		*d = Duration(time.Duration(n) * 24 * time.Hour)
		return nil
	}

	v, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

// WithRequestTimeout bounds store work by both the request lifetime and a hard deadline.
func WithRequestTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func cleanOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func envName(field string) string {
	field, _, _ = strings.Cut(field, "[")

	switch field {
	case "Env":
		return "APP_ENV"
	case "Port":
		return "PORT"
	case "DBURL":
		return "DATABASE_URL"
	case "JWTSecret":
		return "JWT_SECRET"
	case "JWTTTL":
		return "JWT_EXPIRES_IN"
	case "JWTAudience":
		return "JWT_AUDIENCE"
	case "JWTIssuer":
		return "JWT_ISSUER"
	case "CORSOrigins":
		return "CORS_ORIGIN"
	case "RedisDB":
		return "REDIS_DB"
	case "AdminEmail":
		return "ADMIN_EMAIL"
	case "AdminPassword":
		return "ADMIN_PASSWORD"
	default:
		return field
	}
}
