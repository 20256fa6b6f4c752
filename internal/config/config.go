package config

import (
	"errors"
	"os"
	"strings"
)

type Config struct {
	MongoURI            string
	MongoDatabase       string
	RedisURI            string
	JWTSecret           string
	Port                string
	AllowedOrigins      []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL; cookies need an exact origin
	StreamAPIKey        string
	StreamAPISecret     string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	Environment         string // ENV or NODE_ENV: production, development, etc.
	TrustProxy          bool   // honor X-Forwarded-For when resolving client IPs
}

// AuthConfig is the slice of configuration the auth handlers and the
// protect-route gate need. It is passed explicitly instead of read from the
// environment at request time.
type AuthConfig struct {
	TokenSecret  string
	IsProduction bool
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", getEnv("NODE_ENV", "development"))))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:5173")}
	}

	return &Config{
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/lingua")),
		MongoDatabase:       getEnv("MONGO_DATABASE", ""),
		RedisURI:            getEnv("REDIS_URI", ""),
		JWTSecret:           getEnv("JWT_SECRET_KEY", getEnv("JWT_SECRET", "")),
		Port:                getEnv("PORT", "5001"),
		AllowedOrigins:      allowedOrigins,
		StreamAPIKey:        getEnv("STREAM_API_KEY", ""),
		StreamAPISecret:     getEnv("STREAM_API_SECRET", ""),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Environment:         env,
		TrustProxy:          strings.EqualFold(getEnv("TRUST_PROXY", "false"), "true"),
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is not set")
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func (c *Config) Auth() AuthConfig {
	return AuthConfig{
		TokenSecret:  c.JWTSecret,
		IsProduction: c.IsProduction(),
	}
}

// StreamEnabled reports whether chat presence credentials are present.
func (c *Config) StreamEnabled() bool {
	return c.StreamAPIKey != "" && c.StreamAPISecret != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
