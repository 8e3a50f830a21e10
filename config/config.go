package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBSecretID string // AWS Secrets Manager secret holding {"username","password"}

	JWTAccessSecret   string
	JWTAccessTTLHours int

	// ✅ Redis Config (rate limiter store)
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	// ✅ SMTP Config
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string
	AdminEmails   []string

	// ✅ Kafka Config (lead events)
	KafkaBrokers    []string
	KafkaLeadsTopic string

	// ✅ Media & documents
	MediaRoot      string
	MediaURL       string
	LogoPath       string
	CurrencySuffix string

	DefaultSiteDomain string
	DefaultSiteName   string

	AllowedOrigins          []string
	LinkCheckTimeoutSeconds int

	// Forwarding headers are honoured only from these proxies; empty trusts none.
	TrustedProxies  []string
	TrustedPlatform string // e.g. "CF-Connecting-IP" behind Cloudflare
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "seneca"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBSecretID: os.Getenv("DB_SECRET_ID"),

		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		JWTAccessTTLHours: getEnvInt("JWT_ACCESS_TTL_HOURS", 12),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Seneca CMS"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),
		AdminEmails:   splitList(os.Getenv("ADMIN_EMAILS")),

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaLeadsTopic: getEnv("KAFKA_LEADS_TOPIC", "seneca.leads"),

		MediaRoot:      getEnv("MEDIA_ROOT", "./media"),
		MediaURL:       getEnv("MEDIA_URL", "/media/"),
		LogoPath:       getEnv("LOGO_PATH", "static/logo.png"),
		CurrencySuffix: getEnv("CURRENCY_SUFFIX", "₸"),

		DefaultSiteDomain: getEnv("DEFAULT_SITE_DOMAIN", "seneca.kz"),
		DefaultSiteName:   getEnv("DEFAULT_SITE_NAME", "Seneca Partners"),

		AllowedOrigins:          splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		LinkCheckTimeoutSeconds: getEnvInt("LINK_CHECK_TIMEOUT_SECONDS", 5),

		TrustedProxies:  splitList(os.Getenv("TRUSTED_PROXIES")),
		TrustedPlatform: os.Getenv("TRUSTED_PLATFORM"),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return n
}

// splitList turns "a, b,,c" into [a b c].
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
