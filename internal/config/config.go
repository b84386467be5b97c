package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	ServerPort    string
	Storage       string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	MessageSecret string
	LogLevel      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Storage:       getEnv("STORAGE", StoragePostgres),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "linkup"),
		DBPassword:    getEnv("DB_PASSWORD", "linkup_dev_password"),
		DBName:        getEnv("DB_NAME", "linkup"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		MessageSecret: getEnv("MESSAGE_SECRET", "dev-message-secret-change-me"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
