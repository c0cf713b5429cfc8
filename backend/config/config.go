package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string // postgres, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string
	JWTSecret  string
	ServerPort string
	LogMode    string
	// Comma-separated list of origins allowed to call the API
	CORSOrigins string

	DefaultPageSize    int
	MaxPageSize        int
	ShutdownTimeoutSec int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "quiz_practice"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		SQLitePath:         getEnv("SQLITE_PATH", "quiz_practice.db"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		ServerPort:         getEnv("SERVER_PORT", "5500"),
		LogMode:            getEnv("LOG_MODE", "development"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:5500"),
		DefaultPageSize:    getEnvInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:        getEnvInt("MAX_PAGE_SIZE", 100),
		ShutdownTimeoutSec: getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil || i <= 0 {
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return i
}
