package config

import (
	"os"
	"time"
)

type Config struct {
	ContentAPIBaseURL string
	PublishAPIBaseURL string
	RemoteTimeout     time.Duration
	RedisURI          string
	FrontendURL       string
	ListenAddr        string
	SecretKey         string
	CookieName        string
	JobRefreshSpec    string
}

func LoadConfig() *Config {
	return &Config{
		ContentAPIBaseURL: getEnv("CONTENT_API_BASE_URL", "http://localhost:8000/api"),
		PublishAPIBaseURL: getEnv("PUBLISH_API_BASE_URL", "http://localhost:8000/api/instagram"),
		RemoteTimeout:     getEnvDuration("REMOTE_TIMEOUT", 3*time.Minute),
		RedisURI:          getEnv("REDIS_URI", ""),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		ListenAddr:        getEnv("LISTEN_ADDR", ":3000"),
		SecretKey:         getEnv("SECRET_KEY", ""),
		CookieName:        getEnv("COOKIE_NAME", "lumenfeed_session"),
		JobRefreshSpec:    getEnv("JOB_REFRESH_SPEC", "@every 00h05m00s"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
