package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	LoginLimit RateLimitConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Storage    StorageConfig
	S3         S3Config
	Receipt    ReceiptConfig
	Admin      AdminConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
}

type DatabaseConfig struct {
	Driver   string
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

// RateLimitConfig allows Requests per Duration seconds for each client key
type RateLimitConfig struct {
	Requests int
	Duration int
}

type CacheConfig struct {
	Driver string
	Size   int
	TTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver string
	Path   string
}

type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	PresignExpiry   time.Duration
}

// ReceiptConfig customises the shareable receipt text
type ReceiptConfig struct {
	Title        string
	Contact      []string
	Payment      []string
	ShareBaseURL string
	SharePhone   string
	Timezone     string
}

type AdminConfig struct {
	Username string
	Password string
}

// Load reads .env (when present) and the environment into a Config
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	return fromViper(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pedidos-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "pedidos")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Mexico_City")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "")
	v.SetDefault("CORS_ALLOWED_HEADERS", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("LOGIN_RATE_LIMIT_REQUESTS", 5)
	v.SetDefault("LOGIN_RATE_LIMIT_DURATION", 60)
	v.SetDefault("CACHE_DRIVER", "lru")
	v.SetDefault("CACHE_SIZE", 256)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORAGE_DRIVER", "fs")
	v.SetDefault("STORAGE_PATH", "./storage")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_PATH_STYLE", false)
	v.SetDefault("S3_PRESIGN_EXPIRY_MINUTES", 15)
	v.SetDefault("RECEIPT_TITLE", "RESUMEN DE PEDIDO")
	v.SetDefault("RECEIPT_CONTACT", "")
	v.SetDefault("RECEIPT_PAYMENT", "")
	v.SetDefault("RECEIPT_SHARE_BASE_URL", "https://wa.me/")
	v.SetDefault("RECEIPT_SHARE_PHONE", "")
	v.SetDefault("RECEIPT_TIMEZONE", "America/Mexico_City")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
}

func fromViper(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			Debug:    v.GetBool("APP_DEBUG"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: list(v.GetString("CORS_ALLOWED_ORIGINS"), ","),
			AllowedMethods: list(v.GetString("CORS_ALLOWED_METHODS"), ","),
			AllowedHeaders: list(v.GetString("CORS_ALLOWED_HEADERS"), ","),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		LoginLimit: RateLimitConfig{
			Requests: v.GetInt("LOGIN_RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("LOGIN_RATE_LIMIT_DURATION"),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(v.GetString("CACHE_DRIVER")),
			Size:   v.GetInt("CACHE_SIZE"),
			TTL:    time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Path:   v.GetString("STORAGE_PATH"),
		},
		S3: S3Config{
			Region:          v.GetString("S3_REGION"),
			Bucket:          v.GetString("S3_BUCKET"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			PathStyle:       v.GetBool("S3_PATH_STYLE"),
			PresignExpiry:   time.Duration(v.GetInt("S3_PRESIGN_EXPIRY_MINUTES")) * time.Minute,
		},
		Receipt: ReceiptConfig{
			Title:        v.GetString("RECEIPT_TITLE"),
			Contact:      list(v.GetString("RECEIPT_CONTACT"), "|"),
			Payment:      list(v.GetString("RECEIPT_PAYMENT"), "|"),
			ShareBaseURL: v.GetString("RECEIPT_SHARE_BASE_URL"),
			SharePhone:   v.GetString("RECEIPT_SHARE_PHONE"),
			Timezone:     v.GetString("RECEIPT_TIMEZONE"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
}

// list splits a separated env value, dropping blanks
func list(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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

// IsProduction reports whether the app runs with APP_ENV=production
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
