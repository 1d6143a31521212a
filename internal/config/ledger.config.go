package config

import (
	"os"
	"strings"
	"time"
)

type AppConfig struct {
	HTTPAddr        string
	ACHSettleDelay  time.Duration
	WireSettleDelay time.Duration
	AllowedOrigins  []string
}

func Load() AppConfig {
	return AppConfig{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8030"),
		ACHSettleDelay:  getDuration("ACH_SETTLE_DELAY", 3*time.Second),
		WireSettleDelay: getDuration("WIRE_SETTLE_DELAY", time.Second),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
