package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Admin    AdminConfig
	SMTP     SMTPConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	CookieName string
	TTLHours   int // cart lifetime in the session store
}

type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt hash of the admin password
	JWTSecret    string
	TokenExpiry  int // in minutes
}

type SMTPConfig struct {
	Host    string
	Port    string
	From    string
	Enabled bool
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_COOKIE_NAME", "session_id")
	viper.SetDefault("SESSION_TTL_HOURS", 72)
	viper.SetDefault("ADMIN_TOKEN_EXPIRY", 60)
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", "25")
	viper.SetDefault("SMTP_FROM", "orders@storefront.local")
	viper.SetDefault("SMTP_ENABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			CookieName: viper.GetString("SESSION_COOKIE_NAME"),
			TTLHours:   viper.GetInt("SESSION_TTL_HOURS"),
		},
		Admin: AdminConfig{
			Email:        viper.GetString("ADMIN_EMAIL"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
			JWTSecret:    viper.GetString("ADMIN_JWT_SECRET"),
			TokenExpiry:  viper.GetInt("ADMIN_TOKEN_EXPIRY"),
		},
		SMTP: SMTPConfig{
			Host:    viper.GetString("SMTP_HOST"),
			Port:    viper.GetString("SMTP_PORT"),
			From:    viper.GetString("SMTP_FROM"),
			Enabled: viper.GetBool("SMTP_ENABLED"),
		},
	}
}
