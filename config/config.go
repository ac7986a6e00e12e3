package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultPort                   = "3000"
	DefaultAllowedOrigins         = "http://localhost:5173"
	DefaultSaltRounds             = 10
	DefaultLoginLockoutMinutes    = 15
	DefaultOtpExpirationMinutes   = 15
	DefaultLoginMaxAttempts       = 5
	DefaultAccessTokenExpiryMin   = 15
	DefaultRefreshTokenExpiryDays = 7
	DefaultRateLimitMax           = 20
	DefaultRateLimitWindowSeconds = 60
	DefaultCleanupIntervalMinutes = 60
	DefaultCountriesAPIURL        = "https://restcountries.com/v3.1/all?fields=name,cca2"
)

type Config struct {
	Env            string
	Port           string
	DBURL          string
	AllowedOrigins []string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryDays  int

	SaltRounds           int
	LoginLockoutMinutes  int
	OtpExpirationMinutes int
	LoginMaxAttempts     int

	RedisAddr              string
	RedisPassword          string
	RateLimitMax           int
	RateLimitWindowSeconds int

	NatsURL string

	CleanupIntervalMinutes int
	CountriesAPIURL        string
}

// Load reads configuration from the process environment, falling back to
// config/.env.dev or config/.env.prod depending on ENV. Environment variables
// always win over file values.
func Load() *Config {
	env := getEnv("ENV", getEnv("NODE_ENV", EnvDevelopment))

	src := envSource{file: readEnvFile(env)}

	return &Config{
		Env:            env,
		Port:           src.get("PORT", DefaultPort),
		DBURL:          src.mustGet("DB_URL"),
		AllowedOrigins: splitList(src.get("ALLOWED_ORIGINS", DefaultAllowedOrigins)),

		AccessTokenSecret:  src.mustGet("JWT_ACCESS_SECRET"),
		RefreshTokenSecret: src.mustGet("JWT_REFRESH_SECRET"),
		AccessExpiryMin:    src.getInt("JWT_ACCESS_EXP_MINUTES", DefaultAccessTokenExpiryMin),
		RefreshExpiryDays:  src.getInt("JWT_REFRESH_EXP_DAYS", DefaultRefreshTokenExpiryDays),

		SaltRounds:           src.getInt("SALT_ROUNDS_PASSWORD", DefaultSaltRounds),
		LoginLockoutMinutes:  src.getInt("LOGIN_LOCKOUT_MINUTES", DefaultLoginLockoutMinutes),
		OtpExpirationMinutes: src.getInt("OTP_EXPIRATION_MINUTES", DefaultOtpExpirationMinutes),
		LoginMaxAttempts:     src.getInt("AUTH_MAX_ATTEMPTS", DefaultLoginMaxAttempts),

		RedisAddr:              src.get("REDIS_ADDR", ""),
		RedisPassword:          src.get("REDIS_PASSWORD", ""),
		RateLimitMax:           src.getInt("AUTH_RATE_LIMIT", DefaultRateLimitMax),
		RateLimitWindowSeconds: src.getInt("AUTH_RATE_WINDOW_SECONDS", DefaultRateLimitWindowSeconds),

		NatsURL: src.get("NATS_URL", ""),

		CleanupIntervalMinutes: src.getInt("TOKEN_CLEANUP_INTERVAL_MINUTES", DefaultCleanupIntervalMinutes),
		CountriesAPIURL:        src.get("COUNTRIES_API_URL", DefaultCountriesAPIURL),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func readEnvFile(env string) map[string]string {
	name := ".env.dev"
	if env == EnvProduction {
		name = ".env.prod"
	}

	path := filepath.Join("config", name)
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		log.Warnf("Could not read %s: %v", path, err)
		return nil
	}
	return values
}

type envSource struct {
	file map[string]string
}

func (s envSource) get(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := s.file[key]; value != "" {
		return value
	}
	return defaultVal
}

func (s envSource) mustGet(key string) string {
	if value := s.get(key, ""); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func (s envSource) getInt(key string, defaultVal int) int {
	valStr := s.get(key, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Warnf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
