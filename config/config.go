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
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderDB int    `mapstructure:"REDIS_REMINDER_DB"`

	// Isoline routing provider.
	RoutingBaseURL   string `mapstructure:"ROUTING_BASE_URL"`
	RoutingAPIKey    string `mapstructure:"ROUTING_API_KEY"`
	RoutingProfile   string `mapstructure:"ROUTING_PROFILE"`
	RoutingTimeoutMS int    `mapstructure:"ROUTING_TIMEOUT_MS"`

	// Matching engine tuning.
	DefaultMaxDistanceMeters int               `mapstructure:"DEFAULT_MAX_DISTANCE_METERS"`
	GeoConcurrency           int               `mapstructure:"GEO_CONCURRENCY"`
	RegionAliases            map[string]string `mapstructure:"REGION_ALIASES"`
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
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_REMINDER_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("ROUTING_BASE_URL", "https://api.openrouteservice.org")
	viper.SetDefault("ROUTING_API_KEY", "")
	viper.SetDefault("ROUTING_PROFILE", "driving-car")
	viper.SetDefault("ROUTING_TIMEOUT_MS", 8000)
	viper.SetDefault("DEFAULT_MAX_DISTANCE_METERS", 10000)
	viper.SetDefault("GEO_CONCURRENCY", 4)
	// Metro region alias: requests for the metro id also admit therapists
	// anchored in the wider administrative area.
	viper.SetDefault("REGION_ALIASES", map[string]string{
		"jakarta-metro": "jabodetabek",
	})

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
