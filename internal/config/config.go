package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnectRetries  int
	DBConnectBackoff  time.Duration

	ServerPort string

	JWTSecret    string
	SessionHours int
	SecureCookie bool

	OverdueScanInterval time.Duration

	AvatarDir      string
	AvatarMaxBytes int64
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "taskboard_user"),
		DBPassword: getEnv("DB_PASSWORD", "taskboard_pass"),
		DBName:     getEnv("DB_NAME", "taskboard_db"),

		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DBConnectRetries:  getEnvInt("DB_CONNECT_RETRIES", 5),
		DBConnectBackoff:  getEnvDuration("DB_CONNECT_BACKOFF", 2*time.Second),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		JWTSecret:    getEnv("JWT_SECRET", "supersecretkey"),
		SessionHours: getEnvInt("SESSION_HOURS", 72),
		SecureCookie: getEnv("SECURE_COOKIE", "false") == "true",

		OverdueScanInterval: getEnvDuration("OVERDUE_SCAN_INTERVAL", time.Hour),

		AvatarDir:      getEnv("AVATAR_DIR", "./uploads/avatars"),
		AvatarMaxBytes: int64(getEnvInt("AVATAR_MAX_BYTES", 2<<20)),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}
