package config

import (
	"os"
)

type Config struct {
	Addr     string
	DataDir  string
	LogLevel string
}

func Load() Config {
	return Config{
		Addr:     getenv("PRINTSHOP_ADDR", ":8080"),
		DataDir:  getenv("PRINTSHOP_DATA_DIR", "data"),
		LogLevel: getenv("PRINTSHOP_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
