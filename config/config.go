package config

import (
	"xrayserver/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Port        int

	DatabaseDbPath       string
	DatabaseCacheAddress string
	DatabaseCachePort    int

	SessionTTLHours int

	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	AdviceTimeoutSeconds int
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DATABASE_DB_PATH", "data/xray.db")
	viper.SetDefault("DATABASE_CACHE_ADDRESS", "localhost")
	viper.SetDefault("DATABASE_CACHE_PORT", 6379)
	viper.SetDefault("SESSION_TTL_HOURS", 12)
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	viper.SetDefault("ADVICE_TIMEOUT_SECONDS", 30)

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional, environment variables alone are fine
		log.Debug("no .env file found, using environment", "error", err)
	}

	config := Config{
		Environment:          viper.GetString("ENVIRONMENT"),
		Port:                 viper.GetInt("PORT"),
		DatabaseDbPath:       viper.GetString("DATABASE_DB_PATH"),
		DatabaseCacheAddress: viper.GetString("DATABASE_CACHE_ADDRESS"),
		DatabaseCachePort:    viper.GetInt("DATABASE_CACHE_PORT"),
		SessionTTLHours:      viper.GetInt("SESSION_TTL_HOURS"),
		GeminiAPIKey:         viper.GetString("GEMINI_API_KEY"),
		GeminiModel:          viper.GetString("GEMINI_MODEL"),
		GeminiBaseURL:        viper.GetString("GEMINI_BASE_URL"),
		AdviceTimeoutSeconds: viper.GetInt("ADVICE_TIMEOUT_SECONDS"),
	}

	if config.DatabaseDbPath == "" {
		return Config{}, log.ErrMsg("DATABASE_DB_PATH is required")
	}

	return config, nil
}
