package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	Log   Log   `envPrefix:"LOG_"`
	HTTP  HTTP  `envPrefix:"HTTP_"`
	GRPC  GRPC  `envPrefix:"GRPC_"`
	Mongo Mongo `envPrefix:"MONGODB_"`
	JWT   JWT   `envPrefix:"JWT_"`
}

// Log contains logger parameters.
type Log struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// HTTP contains REST server parameters.
type HTTP struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	StaticDir       string        `env:"STATIC_DIR"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"*"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// GRPC contains parameters of the gRPC health endpoint.
type GRPC struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Port    string `env:"PORT" envDefault:"50051"`
}

// Mongo contains database connection parameters.
type Mongo struct {
	URI            string        `env:"URI,required"`
	Database       string        `env:"DATABASE" envDefault:"chat_db"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	// Transactions requires a replica set or sharded cluster.
	Transactions bool `env:"TRANSACTIONS" envDefault:"false"`
}

// JWT contains token signing parameters. Either Secret or Keys must be set;
// Keys has the form kid:secret,kid2:secret2 and enables rotation.
type JWT struct {
	Secret    string            `env:"SECRET"`
	Keys      map[string]string `env:"KEYS" envKeyValSeparator:":"`
	ActiveKID string            `env:"ACTIVE_KID"`
	TTL       time.Duration     `env:"TTL" envDefault:"48h"`
}

// NewConfig loads configuration from environment variables. Values from the
// given dotenv files (".env" when none are given) are loaded first without
// overriding variables that are already set; missing files are ignored.
func NewConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" && len(c.JWT.Keys) == 0 {
		return errors.New("either JWT_SECRET or JWT_KEYS must be set")
	}
	if len(c.JWT.Keys) > 0 {
		if c.JWT.ActiveKID == "" {
			return errors.New("JWT_ACTIVE_KID must be set when JWT_KEYS is used")
		}
		if _, ok := c.JWT.Keys[c.JWT.ActiveKID]; !ok {
			return fmt.Errorf("JWT_ACTIVE_KID %q not found in JWT_KEYS", c.JWT.ActiveKID)
		}
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}
