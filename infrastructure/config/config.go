package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainconfig "photoshare/domain/config"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	IndexName     string // GSI1 - photo listing by creation time
	GSI2IndexName string // GSI2 - comment lookup by id
	PhotoBucket   string
	EventBusName  string

	// Storage selection
	StoreBackend   string // dynamodb | memory
	PhotoBaseURL   string // public prefix of stored images
	LocalUploadDir string // used when PhotoBucket is empty

	// Cache
	CacheBackend        string // redis | memory | none
	RedisAddress        string
	RedisPassword       string
	RedisTLS            bool
	RedisConnectTimeout time.Duration
	PhotoCacheTTL       time.Duration
	PhotoListCacheTTL   time.Duration

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret            string
	JWTIssuer            string
	JWTTTL               time.Duration
	TrustIdentityHeaders bool
	AuthRateLimit        int // sign-in/sign-up requests per minute per IP

	// HTTP
	CORSAllowedOrigins []string
	MaxUploadBytes     int64 // 0 keeps the environment default

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("TABLE_NAME", "photoshare")
	v.SetDefault("GSI1_INDEX_NAME", "GSI1")
	v.SetDefault("GSI2_INDEX_NAME", "GSI2")
	v.SetDefault("PHOTO_BUCKET", "")
	v.SetDefault("EVENT_BUS_NAME", "")
	v.SetDefault("PHOTO_BASE_URL", "")
	v.SetDefault("LOCAL_UPLOAD_DIR", "./uploads")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_TLS", false)
	v.SetDefault("REDIS_CONNECT_TIMEOUT", "10s")
	v.SetDefault("PHOTO_CACHE_TTL", "300s")
	v.SetDefault("PHOTO_LIST_CACHE_TTL", "60s")
	v.SetDefault("JWT_ISSUER", "photoshare")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("TRUST_IDENTITY_HEADERS", true)
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_METRICS", false)
	v.SetDefault("ENABLE_TRACING", false)
	v.SetDefault("ENABLE_CORS", true)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_BYTES", 0)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	cfg := &Config{
		ServerAddress: v.GetString("SERVER_ADDRESS"),
		Environment:   v.GetString("ENVIRONMENT"),
		AWSRegion:     v.GetString("AWS_REGION"),
		DynamoDBTable: v.GetString("TABLE_NAME"),
		IndexName:     v.GetString("GSI1_INDEX_NAME"),
		GSI2IndexName: v.GetString("GSI2_INDEX_NAME"),
		PhotoBucket:   v.GetString("PHOTO_BUCKET"),
		EventBusName:  v.GetString("EVENT_BUS_NAME"),

		StoreBackend:   v.GetString("STORE_BACKEND"),
		PhotoBaseURL:   v.GetString("PHOTO_BASE_URL"),
		LocalUploadDir: v.GetString("LOCAL_UPLOAD_DIR"),

		CacheBackend:  strings.ToLower(v.GetString("CACHE_BACKEND")),
		RedisAddress:  v.GetString("REDIS_ADDRESS"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisTLS:      v.GetBool("REDIS_TLS"),

		IsLambda:           v.GetString("AWS_LAMBDA_FUNCTION_NAME") != "",
		LambdaFunctionName: v.GetString("AWS_LAMBDA_FUNCTION_NAME"),

		LogLevel: v.GetString("LOG_LEVEL"),

		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		TrustIdentityHeaders: v.GetBool("TRUST_IDENTITY_HEADERS"),
		AuthRateLimit:        v.GetInt("AUTH_RATE_LIMIT"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),

		EnableMetrics: v.GetBool("ENABLE_METRICS"),
		EnableTracing: v.GetBool("ENABLE_TRACING"),
		EnableCORS:    v.GetBool("ENABLE_CORS"),
	}

	var err error
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"REDIS_CONNECT_TIMEOUT", &cfg.RedisConnectTimeout},
		{"PHOTO_CACHE_TTL", &cfg.PhotoCacheTTL},
		{"PHOTO_LIST_CACHE_TTL", &cfg.PhotoListCacheTTL},
		{"JWT_TTL", &cfg.JWTTTL},
	}
	for _, d := range durations {
		if *d.dst, err = duration(v.GetString(d.key)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "memory"
		if cfg.IsProduction() || cfg.IsLambda {
			cfg.StoreBackend = "dynamodb"
		}
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return errors.New("TABLE_NAME is required in production")
		}
		if c.PhotoBucket == "" {
			return errors.New("PHOTO_BUCKET is required in production")
		}
	}

	switch c.StoreBackend {
	case "dynamodb", "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.CacheBackend {
	case "redis":
		if c.RedisAddress == "" {
			return errors.New("REDIS_ADDRESS is required when CACHE_BACKEND=redis")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.MaxUploadBytes < 0 {
		return errors.New("MAX_UPLOAD_BYTES must not be negative")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DomainConfig returns the business rules for this environment
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	dc := domainconfig.LoadDomainConfig(c.Environment)
	if c.MaxUploadBytes > 0 {
		dc.MaxUploadBytes = c.MaxUploadBytes
	}
	return dc
}

// duration accepts Go durations ("90s", "5m") and bare integers as seconds
func duration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
