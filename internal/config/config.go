// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string
	Port    string
	Env     string // "development", "production", "testing"
	BaseURL string // Public origin, used for OAuth redirects

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + sessions)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// SessionSecret signs the flash-message cookie.
	SessionSecret string

	// AdminEmails is the build-time allow-list for the dashboard.
	AdminEmails []string

	// EmailFormEnabled is the default for the contact-form toggle. The
	// runtime value in app_config takes precedence.
	EmailFormEnabled bool

	// EmailJS delivery for the contact form
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string

	// AnalyticsEmbedURL is the default analytics report URL.
	AnalyticsEmbedURL string

	// Google OAuth sign-in (disabled when the client ID is empty)
	GoogleClientID     string
	GoogleClientSecret string

	// S3-compatible object storage for media uploads (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// defaults lists every recognized key with its fallback value.
var defaults = map[string]string{
	"APP_HOST":             "0.0.0.0",
	"APP_PORT":             "8080",
	"APP_ENV":              "development",
	"APP_BASE_URL":         "http://localhost:8080",
	"POSTGRES_HOST":        "localhost",
	"POSTGRES_PORT":        "5432",
	"POSTGRES_USER":        "folio",
	"POSTGRES_PASSWORD":    "changeme",
	"POSTGRES_DB":          "folio",
	"VALKEY_HOST":          "localhost",
	"VALKEY_PORT":          "6379",
	"VALKEY_PASSWORD":      "",
	"SESSION_SECRET":       "",
	"ADMIN_EMAILS":         "",
	"EMAIL_FORM_ENABLED":   "true",
	"EMAILJS_SERVICE_ID":   "",
	"EMAILJS_TEMPLATE_ID":  "",
	"EMAILJS_PUBLIC_KEY":   "",
	"ANALYTICS_EMBED_URL":  "",
	"GOOGLE_CLIENT_ID":     "",
	"GOOGLE_CLIENT_SECRET": "",
	"S3_ENDPOINT":          "",
	"S3_REGION":            "us-east-1",
	"S3_ACCESS_KEY":        "",
	"S3_SECRET_KEY":        "",
	"S3_BUCKET":            "",
	"S3_PUBLIC_URL":        "",
}

// devSessionSecret is used outside production when SESSION_SECRET is unset.
const devSessionSecret = "folio-development-session-secret"

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. If FOLIO_CONFIG_FILE names a file, its
// values are read first and environment variables still take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if path := v.GetString("FOLIO_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Host:    v.GetString("APP_HOST"),
		Port:    v.GetString("APP_PORT"),
		Env:     v.GetString("APP_ENV"),
		BaseURL: strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),

		DBHost:     v.GetString("POSTGRES_HOST"),
		DBPort:     v.GetString("POSTGRES_PORT"),
		DBUser:     v.GetString("POSTGRES_USER"),
		DBPassword: v.GetString("POSTGRES_PASSWORD"),
		DBName:     v.GetString("POSTGRES_DB"),

		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),

		SessionSecret: v.GetString("SESSION_SECRET"),
		AdminEmails:   SplitList(v.GetString("ADMIN_EMAILS")),

		EmailFormEnabled: parseBool(v.GetString("EMAIL_FORM_ENABLED"), true),

		EmailJSServiceID:  v.GetString("EMAILJS_SERVICE_ID"),
		EmailJSTemplateID: v.GetString("EMAILJS_TEMPLATE_ID"),
		EmailJSPublicKey:  v.GetString("EMAILJS_PUBLIC_KEY"),

		AnalyticsEmbedURL: v.GetString("ANALYTICS_EMBED_URL"),

		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),

		S3Endpoint:  v.GetString("S3_ENDPOINT"),
		S3Region:    v.GetString("S3_REGION"),
		S3AccessKey: v.GetString("S3_ACCESS_KEY"),
		S3SecretKey: v.GetString("S3_SECRET_KEY"),
		S3Bucket:    v.GetString("S3_BUCKET"),
		S3PublicURL: v.GetString("S3_PUBLIC_URL"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// EmailJSConfigured reports whether all three EmailJS identifiers are set.
func (c *Config) EmailJSConfigured() bool {
	return c.EmailJSServiceID != "" && c.EmailJSTemplateID != "" && c.EmailJSPublicKey != ""
}

// GoogleConfigured reports whether Google sign-in can be offered.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// SplitList splits a comma-separated list, trimming whitespace and
// dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBool accepts "true"/"false" (any case, surrounding space ignored)
// and returns fallback for anything else.
func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
