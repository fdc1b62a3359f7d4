package config

import (
	"log"
	"os"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	JWTSecret     string
	Port          string
	AdminPassword string
}

// Load reads configuration from environment variables. DATABASE_URL is the
// only hard requirement.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Port:          getEnvWithDefault("PORT", "8000"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "solid_secret_key" // Replace with secure key in production
		log.Println("WARNING: JWT_SECRET not set, using insecure default")
	}
	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
