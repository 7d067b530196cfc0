package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Log    LogConfig
	CORS   CORSConfig
	Zoho   ZohoConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Host string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// CORSConfig holds cross-origin configuration for the inquiry form
type CORSConfig struct {
	AllowedOrigins []string
}

// ZohoConfig holds the OAuth credentials and Creator form coordinates
type ZohoConfig struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	RefreshToken string `validate:"required"`
	AccountsURL  string `validate:"required,url"`

	APIBaseURL   string `validate:"required,url"`
	AccountOwner string `validate:"required"`
	AppName      string `validate:"required"`
	FormName     string `validate:"required"`

	// HTTPTimeout bounds each outbound call; zero disables the client timeout.
	HTTPTimeout time.Duration `validate:"gte=0"`
}

// TokenURL returns the OAuth token endpoint
func (z ZohoConfig) TokenURL() string {
	return strings.TrimRight(z.AccountsURL, "/") + "/oauth/v2/token"
}

// FormURL returns the Creator endpoint records are added through
func (z ZohoConfig) FormURL() string {
	return fmt.Sprintf("%s/creator/v2.1/data/%s/%s/form/%s",
		strings.TrimRight(z.APIBaseURL, "/"),
		url.PathEscape(z.AccountOwner),
		url.PathEscape(z.AppName),
		url.PathEscape(z.FormName),
	)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseStringList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Zoho: ZohoConfig{
			ClientID:     getEnv("ZOHO_CLIENT_ID", ""),
			ClientSecret: getEnv("ZOHO_CLIENT_SECRET", ""),
			RefreshToken: getEnv("ZOHO_REFRESH_TOKEN", ""),
			AccountsURL:  getEnv("ZOHO_ACCOUNTS_URL", "https://accounts.zoho.in"),
			APIBaseURL:   getEnv("ZOHO_API_BASE_URL", "https://www.zohoapis.in"),
			AccountOwner: getEnv("ZOHO_ACCOUNT_OWNER", ""),
			AppName:      getEnv("ZOHO_APP_NAME", ""),
			FormName:     getEnv("ZOHO_FORM_NAME", ""),
			HTTPTimeout:  parseDuration(getEnv("ZOHO_HTTP_TIMEOUT", "30s"), 30*time.Second),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and formats
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid config: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", envName(fe.Namespace()), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s: %w", strings.Join(fields, ", "), err)
}

var envNames = map[string]string{
	"Config.Server.Port":       "PORT",
	"Config.Zoho.ClientID":     "ZOHO_CLIENT_ID",
	"Config.Zoho.ClientSecret": "ZOHO_CLIENT_SECRET",
	"Config.Zoho.RefreshToken": "ZOHO_REFRESH_TOKEN",
	"Config.Zoho.AccountsURL":  "ZOHO_ACCOUNTS_URL",
	"Config.Zoho.APIBaseURL":   "ZOHO_API_BASE_URL",
	"Config.Zoho.AccountOwner": "ZOHO_ACCOUNT_OWNER",
	"Config.Zoho.AppName":      "ZOHO_APP_NAME",
	"Config.Zoho.FormName":     "ZOHO_FORM_NAME",
	"Config.Zoho.HTTPTimeout":  "ZOHO_HTTP_TIMEOUT",
}

// envName maps a validator namespace back to the variable that feeds it
func envName(namespace string) string {
	if name, ok := envNames[namespace]; ok {
		return name
	}
	return namespace
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseDuration parses string to time.Duration with default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// parseStringList parses comma-separated string to slice
func parseStringList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
