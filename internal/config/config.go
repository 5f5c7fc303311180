package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains gateway configuration parameters.
type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"8080"`
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`

	JWT        JWT        `envPrefix:"JWT_"`
	Partitions Partitions `envPrefix:"PARTITION_"`
	Fanout     Fanout     `envPrefix:"FANOUT_"`
	Google     Google     `envPrefix:"GOOGLE_"`
	Redis      Redis      `envPrefix:"REDIS_"`

	// FrontendRedirectURL is where federated callbacks send the
	// browser, with token/user query parameters appended.
	FrontendRedirectURL string `env:"FRONTEND_REDIRECT_URL"`
}

// JWT holds token signing parameters. TTL of zero issues tokens
// without an expiry claim.
type JWT struct {
	Secret string        `env:"SECRET,required"`
	TTL    time.Duration `env:"TTL" envDefault:"0"`
}

// Partitions holds the base URL of each role-scoped identity store
// and the order in which matches are resolved. Priority is the
// tie-break policy: when the same email exists in two partitions, the
// earlier-listed one wins.
type Partitions struct {
	AdminURL    string   `env:"ADMIN_URL"`
	OwnerURL    string   `env:"OWNER_URL"`
	CustomerURL string   `env:"CUSTOMER_URL"`
	RiderURL    string   `env:"RIDER_URL"`
	Priority    []string `env:"PRIORITY" envDefault:"admin,owner,customer,rider"`
}

// Fanout bounds the login fan-out. PartitionTimeout applies to each
// store call, OverallTimeout to the whole aggregation.
type Fanout struct {
	PartitionTimeout time.Duration `env:"PARTITION_TIMEOUT" envDefault:"3s"`
	OverallTimeout   time.Duration `env:"OVERALL_TIMEOUT" envDefault:"5s"`
}

// Google holds the federated provider client credentials.
type Google struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Redis holds connection parameters for the OAuth handshake store.
type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
}

// Load reads configuration from the environment once at startup.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
