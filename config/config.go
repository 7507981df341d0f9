package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	BaseURL     string `mapstructure:"BASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	Timezone    string `mapstructure:"TIMEZONE"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisTokenDB         int    `mapstructure:"REDIS_TOKEN_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Google Calendar feed.
	CalendarCredentialsFile string `mapstructure:"CALENDAR_CREDENTIALS_FILE"`
	CalendarTokenFile       string `mapstructure:"CALENDAR_TOKEN_FILE"`
	CalendarID              string `mapstructure:"CALENDAR_ID"`

	// SMTP (confirmation / reminder email).
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// SMS gateway.
	SMSGatewayURL string `mapstructure:"SMS_GATEWAY_URL"`
	SMSAPIKey     string `mapstructure:"SMS_API_KEY"`
	SMSSender     string `mapstructure:"SMS_SENDER"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("TIMEZONE", "Europe/Madrid")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_TOKEN_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("CALENDAR_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("CALENDAR_TOKEN_FILE", "token.json")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("SMTP_PORT", "587")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
