package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read once at process start and passed explicitly to every
// component; nothing else in the tree touches the environment.
type Config struct {
	Metals     Metals
	Currency   Currency
	Redis      Redis
	HTTPServer HTTPServer
}

// Metals configures the slot-based metals pipeline.
type Metals struct {
	URL          string        `env:"METALS_API_URL" env-default:"https://api.metals.dev/v1/metal/authority"`
	Authority    string        `env:"METALS_AUTHORITY" env-default:"mcx"`
	Currency     string        `env:"METALS_CURRENCY" env-default:"INR"`
	Unit         string        `env:"METALS_UNIT" env-default:"g"`
	APIKey       string        `env:"METALS_API_KEY"`
	APIKeyAlt    string        `env:"METALS_API_KEY_ALT"`
	AuthMode     string        `env:"METALS_AUTH_MODE" env-default:"query_param"`
	StorePath    string        `env:"METALS_STORE_PATH" env-default:"data/metal-store.json"`
	SlotOverride string        `env:"SLOT"`
	Timeout      time.Duration `env:"FETCHER_TIMEOUT" env-default:"10s"`
}

// Currency configures the one-payload-per-day currency pipeline.
type Currency struct {
	URL       string        `env:"CUR_API_URL" env-default:"https://api.metals.dev/v1/latest"`
	Currency  string        `env:"CUR_CURRENCY" env-default:"INR"`
	Unit      string        `env:"CUR_UNIT" env-default:"g"`
	APIKey    string        `env:"CUR_API_KEY"`
	APIKeyAlt string        `env:"CUR_API_KEY_ALT"`
	AuthMode  string        `env:"CUR_AUTH_MODE" env-default:"query_param"`
	StorePath string        `env:"CUR_STORE_PATH" env-default:"data/currency-store.json"`
	Timeout   time.Duration `env:"FETCHER_TIMEOUT" env-default:"10s"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type HTTPServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8082"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"2m"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	CacheTTL    time.Duration `env:"HTTP_CACHE_TTL" env-default:"5m"`
}

func NewConfig() *Config {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatal("Error reading env")
	}

	return cfg
}
