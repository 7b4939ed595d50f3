package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresNode is one side of the read/write database pair.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type RedisNode struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

// Config is read once from the environment (after .env, when present). Nested
// structs prefix their variables, e.g. DB_POSTGRES_WRITE_HOST.
type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"      default:"3000"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME"     default:"MeetingBook"`
		URL      string `envconfig:"URL"      default:"http://localhost:3000"`
		Timezone string `envconfig:"TIMEZONE" default:"Asia/Jakarta"`
		APIKey   string `envconfig:"API_KEY"`
		CORS     struct {
			Enable           bool     `envconfig:"ENABLE"            default:"true"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"   default:"*"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"   default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"   default:"Content-Type,Authorization,X-API-Key"`
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"   default:"300"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"100"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary RedisNode `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	// SMTP delivery is considered configured only when both User and Password are set.
	SMTP struct {
		Host           string `envconfig:"HOST"            default:"smtp.gmail.com"`
		Port           int    `envconfig:"PORT"            default:"587"`
		Secure         bool   `envconfig:"SECURE"`
		User           string `envconfig:"USER"`
		Password       string `envconfig:"PASS"`
		TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"30"`
	} `envconfig:"SMTP"`

	Email struct {
		From string `envconfig:"FROM"`
	} `envconfig:"EMAIL"`

	Reminder struct {
		Enable          bool `envconfig:"ENABLE"           default:"true"`
		Minutes         int  `envconfig:"MINUTES"          default:"30"`
		IntervalSeconds int  `envconfig:"INTERVAL_SECONDS" default:"60"`
	} `envconfig:"REMINDER"`

	Kafka struct {
		Enable        bool     `envconfig:"ENABLE"`
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"meetingbook-notifier"`
		Topics        struct {
			BookingEvents string `envconfig:"BOOKING_EVENTS" default:"booking.events"`
		} `envconfig:"TOPIC"`
		SASL struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

// SMTPConfigured reports whether both SMTP credentials are present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Password != ""
}

// Sender returns EMAIL_FROM, falling back to the SMTP user.
func (c *Config) Sender() string {
	if c.Email.From != "" {
		return c.Email.From
	}

	return c.SMTP.User
}

// Load reads .env (if any) into the process environment and decodes the result.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	if err := godotenv.Load(envFiles...); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using the process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	return &cfg, nil
}

var loadOnce = sync.OnceValue(func() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	return cfg
})

// Get returns the process-wide configuration, loading it on first use.
func Get() *Config {
	return loadOnce()
}
