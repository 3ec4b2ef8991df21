/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the openfinance service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort              string  `mapstructure:"SERVER_PORT"`
	MongoDBURI              string  `mapstructure:"MONGODB_URI"`
	LeafyBankDBName         string  `mapstructure:"LEAFYBANK_DB_NAME"`
	OpenFinanceDBName       string  `mapstructure:"OPENFINANCE_DB_NAME"`
	RedisURL                string  `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix    string  `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	RabbitMQURL             string  `mapstructure:"RABBITMQ_URL"`
	AccountBalanceLimit     float64 `mapstructure:"ACCOUNT_BALANCE_LIMIT"`
	RecentTransactionsLimit int64   `mapstructure:"RECENT_TRANSACTIONS_LIMIT"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LEAFYBANK_DB_NAME", "leafy_bank")
	viper.SetDefault("OPENFINANCE_DB_NAME", "open_finance")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "openfinance:rate_limit")
	viper.SetDefault("ACCOUNT_BALANCE_LIMIT", 1000000.0)
	viper.SetDefault("RECENT_TRANSACTIONS_LIMIT", 20)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("MONGODB_URI")
	_ = viper.BindEnv("LEAFYBANK_DB_NAME")
	_ = viper.BindEnv("OPENFINANCE_DB_NAME")
	_ = viper.BindEnv("REDIS_URL", "REDIS_URL", "OPENFINANCE_REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("ACCOUNT_BALANCE_LIMIT")
	_ = viper.BindEnv("RECENT_TRANSACTIONS_LIMIT")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.MongoDBURI = strings.TrimSpace(config.MongoDBURI)
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "openfinance:rate_limit"
	}

	if config.AccountBalanceLimit < 0 {
		log.Printf("level=warn component=config msg=\"negative account balance limit configured; coercing to zero\" limit=%f", config.AccountBalanceLimit)
		config.AccountBalanceLimit = 0
	}
	if config.RecentTransactionsLimit <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive recent transactions limit configured; using default\" limit=%d", config.RecentTransactionsLimit)
		config.RecentTransactionsLimit = 20
	}

	return
}
