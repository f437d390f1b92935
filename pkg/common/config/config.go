package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers      []string
	KafkaGroupID      string
	NotificationTopic string

	// Auth
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration
	MFAIssuer   string

	// OIDC (optional SSO)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Policy files
	PermissionsPath     string
	ComplianceRulesPath string

	// Analytics
	PrivacyThreshold int
	DashboardTTL     time.Duration
	QueryTTL         time.Duration
	PredictiveTTL    time.Duration
	ImpactTTL        time.Duration

	// Scheduler
	DashboardRefreshEvery time.Duration
	AggregateWarmEvery    time.Duration

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 4*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "registry"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "registry123"),
		PostgresDB:       getEnv("POSTGRES_DB", "registry"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:      getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "registry-platform"),
		NotificationTopic: getEnv("NOTIFICATION_TOPIC", "registry.notifications"),

		JWTSecret:   getEnv("JWT_SECRET", "registry-dev-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "oncentra-registry"),
		JWTAudience: getEnv("JWT_AUDIENCE", "registry-api"),
		JWTTTL:      getDuration("JWT_TTL", 8*time.Hour),
		MFAIssuer:   getEnv("MFA_ISSUER", "Oncentra Registry"),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", ""),

		PermissionsPath:     getEnv("PERMISSIONS_CONFIG", ""),
		ComplianceRulesPath: getEnv("COMPLIANCE_RULES_CONFIG", ""),

		PrivacyThreshold: getIntEnv("PRIVACY_THRESHOLD", 5),
		DashboardTTL:     getDuration("CACHE_DASHBOARD_TTL", 15*time.Minute),
		QueryTTL:         getDuration("CACHE_QUERY_TTL", time.Hour),
		PredictiveTTL:    getDuration("CACHE_PREDICTIVE_TTL", 4*time.Hour),
		ImpactTTL:        getDuration("CACHE_IMPACT_TTL", 6*time.Hour),

		DashboardRefreshEvery: getDuration("DASHBOARD_REFRESH_EVERY", time.Hour),
		AggregateWarmEvery:    getDuration("AGGREGATE_WARM_EVERY", 24*time.Hour),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
