package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	HTTPPort     string
	JWTSecret    string
	PollInterval time.Duration // notification-channel fallback poll
	CodeLength   int
}

func Load() *Config {
	return &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "doodlechain"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
		PollInterval: getDuration("POLL_INTERVAL_SECONDS", 2) * time.Second,
		CodeLength:   getInt("ROOM_CODE_LENGTH", 4),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getInt(key, defaultSeconds))
}
