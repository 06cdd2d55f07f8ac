package config

import "os"

// Config holds application configuration.
type Config struct {
	Port          string
	DBPath        string
	TemplateDir   string
	StaticDir     string
	SecureCookie  bool
	LogLevel      string
	AdminUser     string
	AdminPassword string
}

// NewConfig loads configuration from environment variables.
func NewConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "finance.db"),
		TemplateDir:   getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:     getEnv("STATIC_DIR", "web/static"),
		SecureCookie:  getEnv("SECURE_COOKIE", "") == "true",
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminUser:     getEnv("ADMIN_USER", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
