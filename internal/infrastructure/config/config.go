package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AppURL is the externally visible base URL, used to build the
	// return_to target for login redirects.
	AppURL string `env:"APP_URL, default=http://127.0.0.1:8080"`

	Kratos KratosConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

// KratosConfig locates the identity provider's endpoints. Public serves
// session introspection, Admin the identity directory, UI the provider-hosted
// login screens, Browser the self-service flows users are redirected into.
type KratosConfig struct {
	PublicURL  string `env:"KRATOS_PUBLIC_URL,  default=http://localhost:4433"`
	AdminURL   string `env:"KRATOS_ADMIN_URL,   default=http://localhost:4434"`
	BrowserURL string `env:"KRATOS_BROWSER_URL, default=http://127.0.0.1:4433"`
	UIURL      string `env:"KRATOS_UI_URL,      default=http://127.0.0.1:4455"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kratos_dashboard"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	// IdentityTTL bounds staleness of cached identity directory reads.
	IdentityTTL time.Duration `env:"REDIS_IDENTITY_TTL, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
