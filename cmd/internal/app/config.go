package app

import (
	"errors"
	"fmt"
	"time"
)

// Minimum secret length for the HMAC token keys, in bytes.
const minTokenSecretBytes = 32

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	AutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	WSAllowedOrigins []string

	// If true, /readyz returns 503 unless every configured backend is
	// reachable.
	ReadinessRequireDeps bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("VISASLOT_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("VISASLOT_LOG_LEVEL", "info"),
		LogFormat: EnvString("VISASLOT_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("VISASLOT_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("VISASLOT_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("VISASLOT_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("VISASLOT_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("VISASLOT_HTTP_MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:   EnvInt64("VISASLOT_HTTP_MAX_BODY_BYTES", 1<<20),

		DatabaseURL: EnvString("VISASLOT_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("VISASLOT_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("VISASLOT_DB_MIN_CONNS", 0),
		AutoMigrate: EnvBool("VISASLOT_DB_AUTO_MIGRATE", true),

		RedisAddr:     EnvString("VISASLOT_REDIS_ADDR", ""),
		RedisPassword: EnvString("VISASLOT_REDIS_PASSWORD", ""),
		RedisDB:       EnvInt("VISASLOT_REDIS_DB", 0),

		AccessTokenSecret:  EnvString("VISASLOT_ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: EnvString("VISASLOT_REFRESH_TOKEN_SECRET", ""),
		AccessTokenTTL:     EnvDuration("VISASLOT_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    EnvDuration("VISASLOT_REFRESH_TOKEN_TTL", 7*24*time.Hour),

		CORSAllowedOrigins:   EnvCSV("VISASLOT_CORS_ALLOWED_ORIGINS", ""),
		CORSAllowCredentials: EnvBool("VISASLOT_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("VISASLOT_CORS_MAX_AGE", 600),

		WSAllowedOrigins: EnvCSV("VISASLOT_WS_ALLOWED_ORIGINS", ""),

		ReadinessRequireDeps: EnvBool("VISASLOT_READINESS_REQUIRE_DEPS", false),
	}
}

// ValidateSecurityConfig enforces the token-secret policy at startup.
// Fail-fast is intentional: silently running with missing or shared signing
// keys is unacceptable.
func (c Config) ValidateSecurityConfig() error {
	if c.AccessTokenSecret == "" {
		return errors.New("security policy: VISASLOT_ACCESS_TOKEN_SECRET is missing")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("security policy: VISASLOT_REFRESH_TOKEN_SECRET is missing")
	}
	// Bytes, not runes: the key is used as raw HMAC key material.
	if len(c.AccessTokenSecret) < minTokenSecretBytes {
		return fmt.Errorf("security policy: VISASLOT_ACCESS_TOKEN_SECRET is too short (min %d bytes)", minTokenSecretBytes)
	}
	if len(c.RefreshTokenSecret) < minTokenSecretBytes {
		return fmt.Errorf("security policy: VISASLOT_REFRESH_TOKEN_SECRET is too short (min %d bytes)", minTokenSecretBytes)
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("security policy: access and refresh token secrets must differ")
	}
	return nil
}
