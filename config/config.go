package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Document store backends
const (
	DocStorePostgres = "postgres"
	DocStoreHTTP     = "http"
	DocStoreR2       = "r2"
	DocStoreMemory   = "memory"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	JWTSecret     string
	AllowedOrigin string
	// Persistence
	DocStore        string
	DBUrl           string
	DocStoreURL     string
	DocStoreToken   string
	DocStoreTimeout time.Duration
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2Prefix          string
	R2Timeout         time.Duration
	// Cache
	CartTTL          time.Duration
	CacheSettingsTTL time.Duration
	CacheProductTTL  time.Duration
	// Business Rules
	MaxCartQuantity     int
	PricingBaseCurrency string
	StatusTransitions   string // open | strict
	// Facebook Conversions API
	FBPixelID     string
	FBAccessToken string
	FBAPIVersion  string
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// .env is optional; containers pass plain env vars.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DocStore:        strings.ToLower(getEnv("DOC_STORE", DocStoreMemory)),
		DBUrl:           getEnv("DB_DSN", ""),
		DocStoreURL:     getEnv("DOC_STORE_URL", ""),
		DocStoreToken:   getEnv("DOC_STORE_TOKEN", ""),
		DocStoreTimeout: getDurationEnv("DOC_STORE_TIMEOUT", 10*time.Second),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 10),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2Prefix:          getEnv("R2_PREFIX", "store/"),
		R2Timeout:         getDurationEnv("R2_TIMEOUT", 30*time.Second),

		// Carts live for a browsing session; settings change rarely.
		CartTTL:          getDurationEnv("CART_TTL", 24*time.Hour),
		CacheSettingsTTL: getDurationEnv("CACHE_SETTINGS_TTL", 5*time.Minute),
		CacheProductTTL:  getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),

		MaxCartQuantity:     getIntEnv("MAX_CART_QUANTITY", 1000),
		PricingBaseCurrency: strings.ToUpper(getEnv("PRICING_BASE_CURRENCY", "SAR")),
		StatusTransitions:   strings.ToLower(getEnv("STATUS_TRANSITIONS", "open")),

		FBPixelID:     getEnv("FB_PIXEL_ID", ""),
		FBAccessToken: getEnv("FB_ACCESS_TOKEN", ""),
		FBAPIVersion:  getEnv("FB_API_VERSION", "v19.0"),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

// Validate reports the first configuration problem that would stop the server.
func (c *Config) Validate() error {
	switch c.DocStore {
	case DocStorePostgres:
		if c.DBUrl == "" {
			return errors.New("DB_DSN is required when DOC_STORE=postgres")
		}
	case DocStoreHTTP:
		if c.DocStoreURL == "" {
			return errors.New("DOC_STORE_URL is required when DOC_STORE=http")
		}
	case DocStoreR2:
		if c.R2AccountID == "" || c.R2BucketName == "" {
			return errors.New("R2_ACCOUNT_ID and R2_BUCKET_NAME are required when DOC_STORE=r2")
		}
	case DocStoreMemory:
	default:
		return errors.New("DOC_STORE must be one of postgres, http, r2, memory")
	}
	if c.StatusTransitions != "open" && c.StatusTransitions != "strict" {
		return errors.New("STATUS_TRANSITIONS must be open or strict")
	}
	if c.MaxCartQuantity < 1 {
		return errors.New("MAX_CART_QUANTITY must be positive")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}
