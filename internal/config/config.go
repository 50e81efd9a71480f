package config

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host              string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port              string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User              string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password          string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name              string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode           string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns      int           `yaml:"MAX_OPEN_CONNS" env:"MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns      int           `yaml:"MAX_IDLE_CONNS" env:"MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime   time.Duration `yaml:"CONN_MAX_LIFETIME" env:"CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime   time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"CONN_MAX_IDLE_TIME" env-default:"1m"`
	MigrationsEnabled bool          `yaml:"MIGRATIONS_ENABLED" env:"MIGRATIONS_ENABLED" env-default:"true"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-required:"true"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-required:"true"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

// RateConfig bounds how often one identity may start a gateway checkout.
type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"60s"`
}

type PayU struct {
	Key           string        `yaml:"PAYU_KEY" env:"PAYU_KEY" env-required:"true"`
	Salt          string        `yaml:"PAYU_SALT" env:"PAYU_SALT" env-required:"true"`
	PaymentURL    string        `yaml:"PAYU_PAYMENT_URL" env:"PAYU_PAYMENT_URL" env-default:"https://test.payu.in/_payment"`
	VerifyURL     string        `yaml:"PAYU_VERIFY_URL" env:"PAYU_VERIFY_URL" env-default:"https://test.payu.in/merchant/postservice.php?form=2"`
	VerifyTimeout time.Duration `yaml:"PAYU_VERIFY_TIMEOUT" env:"PAYU_VERIFY_TIMEOUT" env-default:"10s"`
	BackendURL    string        `yaml:"BACKEND_URL" env:"BACKEND_URL" env-required:"true"`
	FrontendURL   string        `yaml:"FRONTEND_URL" env:"FRONTEND_URL" env-required:"true"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@example.com"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Storefront"`
}

type Security struct {
	JWTKey    string `yaml:"JWT_KEY" env:"JWT_KEY" env-default:""`
	AdminRole string `yaml:"ADMIN_ROLE" env:"ADMIN_ROLE" env-default:"admin"`
}

type Identity struct {
	Provider        string `yaml:"PROVIDER" env:"IDENTITY_PROVIDER" env-default:"jwt"`
	ProjectID       string `yaml:"FIREBASE_PROJECT_ID" env:"FIREBASE_PROJECT_ID" env-default:""`
	CredentialsFile string `yaml:"FIREBASE_CREDENTIALS_FILE" env:"FIREBASE_CREDENTIALS_FILE" env-default:""`
}

type OTel struct {
	Enabled          bool    `yaml:"ENABLED" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront-checkout"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"10m"`
}

type Checkout struct {
	PendingTTL      time.Duration `yaml:"PENDING_TTL" env:"CHECKOUT_PENDING_TTL" env-default:"20m"`
	PendingStore    string        `yaml:"PENDING_STORE" env:"CHECKOUT_PENDING_STORE" env-default:"redis"`
	SweepInterval   time.Duration `yaml:"SWEEP_INTERVAL" env:"CHECKOUT_SWEEP_INTERVAL" env-default:"1m"`
	OperationsEmail string        `yaml:"OPERATIONS_EMAIL" env:"CHECKOUT_OPERATIONS_EMAIL" env-default:""`
	NotifyTimeout   time.Duration `yaml:"NOTIFY_TIMEOUT" env:"CHECKOUT_NOTIFY_TIMEOUT" env-default:"15s"`
}

type Cart struct {
	SyncDelay time.Duration `yaml:"SYNC_DELAY" env:"CART_SYNC_DELAY" env-default:"500ms"`
}

// LoadCart reads the client cart settings from the environment alone. Cart
// clients run without the server config file.
func LoadCart() (Cart, error) {
	var cart Cart

	if err := cleanenv.ReadEnv(&cart); err != nil {
		return Cart{}, fmt.Errorf("failed to read cart config: %w", err)
	}

	if cart.SyncDelay <= 0 {
		return Cart{}, fmt.Errorf("CART_SYNC_DELAY must be positive")
	}

	return cart, nil
}

type Config struct {
	Env          string       `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	PayU         PayU         `yaml:"payu"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
	Identity     Identity     `yaml:"identity"`
	OTel         OTel         `yaml:"otel"`
	Cache        CacheConfig  `yaml:"cache"`
	Checkout     Checkout     `yaml:"checkout"`
	Cart         Cart         `yaml:"cart"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = "config/local.yaml"
		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Checkout.PendingStore {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported pending store %q", c.Checkout.PendingStore)
	}

	switch c.Identity.Provider {
	case "jwt":
		if c.Security.JWTKey == "" {
			return fmt.Errorf("security.JWT_KEY is required for the jwt identity provider")
		}
	case "firebase":
		if c.Identity.ProjectID == "" {
			return fmt.Errorf("identity.FIREBASE_PROJECT_ID is required for the firebase identity provider")
		}
	default:
		return fmt.Errorf("unsupported identity provider %q", c.Identity.Provider)
	}

	if c.Checkout.PendingTTL <= 0 {
		return fmt.Errorf("checkout.PENDING_TTL must be positive")
	}

	if c.Checkout.SweepInterval <= 0 {
		return fmt.Errorf("checkout.SWEEP_INTERVAL must be positive")
	}

	if c.Cart.SyncDelay <= 0 {
		return fmt.Errorf("cart.SYNC_DELAY must be positive")
	}

	return nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d",
		url.QueryEscape(r.Username), url.QueryEscape(r.Password), r.Host, r.Port, r.DB)
}
