package config

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Backend   BackendConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Checkout  CheckoutConfig
	Session   SessionConfig
	Invoice   InvoiceConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type LogConfig struct {
	Level  string
	Format string
}

// BackendConfig points at the remote ERP that owns catalog, customers and invoices
type BackendConfig struct {
	DirectoryURL string
	Timeout      time.Duration
	Breaker      BreakerConfig
}

type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// CheckoutConfig holds the pricing and payment rules
type CheckoutConfig struct {
	VATRate          decimal.Decimal
	PaymentTolerance decimal.Decimal
	AbbreviatedLimit decimal.Decimal
}

// SessionConfig governs live terminal sessions
type SessionConfig struct {
	SearchDebounce time.Duration
	IdleTimeout    time.Duration
	CatalogTTL     time.Duration
}

type InvoiceConfig struct {
	PerPageDefault int
	PerPageMin     int
	PerPageMax     int
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	StoreName string
	Address1  string
	Phone     string
	TaxID     string
	Width     int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.WithError(err).Warn(".env file not found, using environment variables")
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-terminal")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("BACKEND_DIRECTORY_URL", "https://directory.example.com/api/method")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("BACKEND_BREAKER_MAX_REQUESTS", 3)
	viper.SetDefault("BACKEND_BREAKER_INTERVAL_SECONDS", 15)
	viper.SetDefault("BACKEND_BREAKER_TIMEOUT_SECONDS", 30)
	viper.SetDefault("BACKEND_BREAKER_MIN_REQUESTS", 3)
	viper.SetDefault("BACKEND_BREAKER_FAILURE_RATIO", 0.6)
	viper.SetDefault("DB_ENABLED", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos_terminal")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kathmandu")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "Accept,Authorization,Content-Type,X-Request-ID,Idempotency-Key")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("VAT_RATE", "0.13")
	viper.SetDefault("PAYMENT_TOLERANCE", "0.01")
	viper.SetDefault("ABT_LIMIT", "10000")
	viper.SetDefault("SEARCH_DEBOUNCE_MS", 700)
	viper.SetDefault("SESSION_IDLE_MINUTES", 120)
	viper.SetDefault("CATALOG_TTL_SECONDS", 300)
	viper.SetDefault("INVOICE_PER_PAGE_DEFAULT", 7)
	viper.SetDefault("INVOICE_PER_PAGE_MIN", 5)
	viper.SetDefault("INVOICE_PER_PAGE_MAX", 25)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_STORE_NAME", "POS Terminal")
	viper.SetDefault("PRINTER_WIDTH", 32)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Backend: BackendConfig{
			DirectoryURL: viper.GetString("BACKEND_DIRECTORY_URL"),
			Timeout:      time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
			Breaker: BreakerConfig{
				MaxRequests:  viper.GetUint32("BACKEND_BREAKER_MAX_REQUESTS"),
				Interval:     time.Duration(viper.GetInt("BACKEND_BREAKER_INTERVAL_SECONDS")) * time.Second,
				Timeout:      time.Duration(viper.GetInt("BACKEND_BREAKER_TIMEOUT_SECONDS")) * time.Second,
				MinRequests:  viper.GetUint32("BACKEND_BREAKER_MIN_REQUESTS"),
				FailureRatio: viper.GetFloat64("BACKEND_BREAKER_FAILURE_RATIO"),
			},
		},
		Database: DatabaseConfig{
			Enabled:  viper.GetBool("DB_ENABLED"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: getList("CORS_ALLOWED_METHODS"),
			AllowedHeaders: getList("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Checkout: CheckoutConfig{
			VATRate:          getDecimal("VAT_RATE", "0.13"),
			PaymentTolerance: getDecimal("PAYMENT_TOLERANCE", "0.01"),
			AbbreviatedLimit: getDecimal("ABT_LIMIT", "10000"),
		},
		Session: SessionConfig{
			SearchDebounce: time.Duration(viper.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,
			IdleTimeout:    time.Duration(viper.GetInt("SESSION_IDLE_MINUTES")) * time.Minute,
			CatalogTTL:     time.Duration(viper.GetInt("CATALOG_TTL_SECONDS")) * time.Second,
		},
		Invoice: InvoiceConfig{
			PerPageDefault: viper.GetInt("INVOICE_PER_PAGE_DEFAULT"),
			PerPageMin:     viper.GetInt("INVOICE_PER_PAGE_MIN"),
			PerPageMax:     viper.GetInt("INVOICE_PER_PAGE_MAX"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			StoreName: viper.GetString("PRINTER_STORE_NAME"),
			Address1:  viper.GetString("PRINTER_STORE_ADDRESS"),
			Phone:     viper.GetString("PRINTER_STORE_PHONE"),
			TaxID:     viper.GetString("PRINTER_STORE_TAX_ID"),
			Width:     viper.GetInt("PRINTER_WIDTH"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// getDecimal reads a money or rate setting, falling back when it does not parse
func getDecimal(key, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": viper.GetString(key)}).Warn("invalid decimal setting, using default")
		return decimal.RequireFromString(fallback)
	}
	return d
}

// getList splits a comma separated setting, dropping blanks
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(viper.GetString(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
