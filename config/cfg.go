package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jekabolt/woometrics/internal/adspend"
	"github.com/jekabolt/woometrics/internal/analytics/ga4"
	"github.com/jekabolt/woometrics/internal/analytics/googleads"
	httpapi "github.com/jekabolt/woometrics/internal/api/http"
	"github.com/jekabolt/woometrics/internal/auth/jwt"
	"github.com/jekabolt/woometrics/internal/cac"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/jekabolt/woometrics/internal/fetcher"
	"github.com/jekabolt/woometrics/internal/stock"
	"github.com/jekabolt/woometrics/internal/woo"
	"github.com/jekabolt/woometrics/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	Store     woo.Config       `mapstructure:"store"`
	Fetcher   fetcher.Config   `mapstructure:"fetcher"`
	Stock     stock.Config     `mapstructure:"stock"`
	CAC       cac.Config       `mapstructure:"cac"`
	GA4       ga4.Config       `mapstructure:"ga4"`
	GoogleAds googleads.Config `mapstructure:"google_ads"`
	AdSpend   adspend.Config   `mapstructure:"adspend"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	Auth      jwt.Config       `mapstructure:"auth"`
	Logger    log.Config       `mapstructure:"logger"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// A .env file in the working directory is loaded into the environment first.
// Nested config keys use double underscore, e.g., STORE__URL for store.url
func LoadConfig(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigType("toml")
	setDefaults()

	viper.AutomaticEnv()
	// e.g., store.url -> STORE__URL, auth.jwt_secret -> AUTH__JWT_SECRET
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	// Bind the flat env var names documented in the README
	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			// If config file doesn't exist, continue with env vars only
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/woometrics")
		viper.AddConfigPath("/etc/woometrics")
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the struct tags of every section. Any failure is a configuration error.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s: %w", strings.Join(fields, ", "), gerr.ErrConfiguration)
	}
	return fmt.Errorf("invalid config: %v: %w", err, gerr.ErrConfiguration)
}

func setDefaults() {
	viper.SetDefault("store.timezone", "Europe/Oslo")
	viper.SetDefault("store.timeout", "30s")
	viper.SetDefault("fetcher.per_page", woo.MaxPerPage)
	viper.SetDefault("fetcher.pool.workers", fetcher.DefaultWorkers)
	viper.SetDefault("stock.ttl", "5m")
	viper.SetDefault("stock.chunk_size", woo.MaxPerPage)
	viper.SetDefault("stock.chunk_pool.workers", stock.DefaultChunkWorkers)
	viper.SetDefault("stock.detail_pool.workers", stock.DefaultDetailWorkers)
	viper.SetDefault("cac.fixed_cost_per_order", cac.DefaultFixedCostPerOrder)
	viper.SetDefault("adspend.source", "ga4")
	viper.SetDefault("adspend.probe_days", 7)
	viper.SetDefault("adspend.worker_interval", "15m")
	viper.SetDefault("http.port", "8081")
	viper.SetDefault("http.write_timeout", "2m")
	viper.SetDefault("http.rate_limit.window", "1m")
	viper.SetDefault("auth.jwt_ttl", "720h")
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (STORE__URL) and flat keys (WOO_URL)
func bindEnvVars() {
	// Store
	viper.BindEnv("store.url", "WOO_URL")
	viper.BindEnv("store.consumer_key", "WOO_CONSUMER_KEY")
	viper.BindEnv("store.consumer_secret", "WOO_CONSUMER_SECRET")
	viper.BindEnv("store.query_string_auth", "WOO_QUERY_STRING_AUTH")
	viper.BindEnv("store.insecure_skip_verify", "WOO_INSECURE_SKIP_VERIFY")
	viper.BindEnv("store.timeout", "WOO_TIMEOUT")
	viper.BindEnv("store.timezone", "WOO_TIMEZONE")

	// Fetcher
	viper.BindEnv("fetcher.per_page", "FETCHER_PER_PAGE")
	viper.BindEnv("fetcher.pool.workers", "FETCHER_WORKERS")
	viper.BindEnv("fetcher.pool.queue_depth", "FETCHER_QUEUE_DEPTH")
	viper.BindEnv("fetcher.pool.policy", "FETCHER_QUEUE_POLICY")

	// Stock
	viper.BindEnv("stock.ttl", "STOCK_TTL")
	viper.BindEnv("stock.chunk_size", "STOCK_CHUNK_SIZE")
	viper.BindEnv("stock.chunk_pool.workers", "STOCK_CHUNK_WORKERS")
	viper.BindEnv("stock.detail_pool.workers", "STOCK_DETAIL_WORKERS")

	// CAC
	viper.BindEnv("cac.fixed_cost_per_order", "CAC_FIXED_COST_PER_ORDER")

	// GA4
	viper.BindEnv("ga4.property_id", "GA4_PROPERTY_ID")
	viper.BindEnv("ga4.credentials_json", "GA4_CREDENTIALS_JSON")
	viper.BindEnv("ga4.enabled", "GA4_ENABLED")

	// Google Ads (BigQuery Data Transfer export)
	viper.BindEnv("google_ads.project_id", "GOOGLE_ADS_PROJECT_ID")
	viper.BindEnv("google_ads.dataset", "GOOGLE_ADS_DATASET")
	viper.BindEnv("google_ads.customer_id", "GOOGLE_ADS_CUSTOMER_ID")
	viper.BindEnv("google_ads.credentials_json", "GOOGLE_ADS_CREDENTIALS_JSON")
	viper.BindEnv("google_ads.enabled", "GOOGLE_ADS_ENABLED")

	// Ad spend
	viper.BindEnv("adspend.source", "ADSPEND_SOURCE")
	viper.BindEnv("adspend.probe_days", "ADSPEND_PROBE_DAYS")
	viper.BindEnv("adspend.worker_interval", "ADSPEND_WORKER_INTERVAL")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	viper.BindEnv("http.write_timeout", "HTTP_WRITE_TIMEOUT")
	viper.BindEnv("http.rate_limit.window", "HTTP_RATE_LIMIT_WINDOW")
	viper.BindEnv("http.rate_limit.max", "HTTP_RATE_LIMIT_MAX")

	// Auth
	viper.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	viper.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")
}
