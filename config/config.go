package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB      int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB       int    `mapstructure:"REDIS_AUTH_DB"`
	RedisRetryQueueDB int    `mapstructure:"REDIS_RETRY_QUEUE_DB"`

	// Stripe API key for the payment gateway adapter.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Platform fee policy: fee = max(percent * amount, minimum).
	PlatformFeePercent float64 `mapstructure:"PLATFORM_FEE_PERCENT"`
	PlatformFeeMinimum float64 `mapstructure:"PLATFORM_FEE_MINIMUM"`

	// Minutes a failed payment must wait before another retry attempt.
	RetryCooldownMinutes int `mapstructure:"RETRY_COOLDOWN_MINUTES"`

	// Matcher search radius bounds, in metres.
	DefaultSearchRadius float64 `mapstructure:"DEFAULT_SEARCH_RADIUS"`
	MinSearchRadius     float64 `mapstructure:"MIN_SEARCH_RADIUS"`
	MaxSearchRadius     float64 `mapstructure:"MAX_SEARCH_RADIUS"`
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
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_RETRY_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "lastmile")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("PLATFORM_FEE_PERCENT", 0.05)
	viper.SetDefault("PLATFORM_FEE_MINIMUM", 0.50)
	viper.SetDefault("RETRY_COOLDOWN_MINUTES", 30)
	viper.SetDefault("DEFAULT_SEARCH_RADIUS", 10000)
	viper.SetDefault("MIN_SEARCH_RADIUS", 100)
	viper.SetDefault("MAX_SEARCH_RADIUS", 100000)

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
