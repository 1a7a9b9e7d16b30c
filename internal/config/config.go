package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	PolicyFile     string // optional YAML file overriding the built-in policy tables
	AllowedOrigins []string
	DashboardURL   string
	SupportContact string
	SupportURL     string
	RateLimitRPS   int
	RateLimitBurst int

	TrustProxyHeaders bool // take the client IP from X-Forwarded-For/X-Real-Ip; only behind a trusted proxy

	JWTPrivateKeyPath string // only needed to mint admin tokens locally
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AWSRegion          string
	AWSEndpointURL     string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID     string
	AWSSecretKey       string
	SNSAppealsTopicARN string // empty disables appeal notifications
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		PolicyFile:     getEnv("POLICY_FILE", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		DashboardURL:   getEnv("DASHBOARD_URL", "https://cursor.com/dashboard"),
		SupportContact: getEnv("SUPPORT_CONTACT", "support@cursor.com"),
		SupportURL:     getEnv("SUPPORT_URL", "https://cursor.com/support"),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 12*time.Hour),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:     getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SNSAppealsTopicARN: getEnv("SNS_APPEALS_TOPIC_ARN", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
