package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Slot configuration.
	SlotCapacity  int    `mapstructure:"SLOT_CAPACITY"`
	LunchSlot     string `mapstructure:"LUNCH_SLOT"`
	TokenTTLDays  int    `mapstructure:"TOKEN_TTL_DAYS"`
	QRSecret      string `mapstructure:"QR_SECRET"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// External collaborators.
	EventsServiceURL string `mapstructure:"EVENTS_SERVICE_URL"`
	NotifyServiceURL string `mapstructure:"NOTIFY_SERVICE_URL"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SLOT_CAPACITY", 30)
	viper.SetDefault("LUNCH_SLOT", "12:00 - 13:00")
	viper.SetDefault("TOKEN_TTL_DAYS", 3)
	viper.SetDefault("EVENTS_SERVICE_URL", "http://localhost:8090")
	viper.SetDefault("NOTIFY_SERVICE_URL", "")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

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
