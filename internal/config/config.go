package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		URL string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Upstream struct {
		ISSURL    string
		OSDRURL   string
		APODURL   string
		NEOURL    string
		DONKIURL  string
		SpaceXURL string
		APIKey    string
	}
	Fetch struct {
		Timeout    time.Duration
		MaxRetries int
		RetryDelay time.Duration
	}
	Intervals struct {
		ISS    time.Duration
		OSDR   time.Duration
		APOD   time.Duration
		NEO    time.Duration
		DONKI  time.Duration
		SpaceX time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB: единственный обязательный параметр
	cfg.DB.URL = os.Getenv("DATABASE_URL")
	if cfg.DB.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Redis
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Внешние источники
	cfg.Upstream.ISSURL = getEnv("WHERE_ISS_URL", "https://api.wheretheiss.at/v1/satellites/25544")
	cfg.Upstream.OSDRURL = getEnv("NASA_API_URL", "https://visualization.osdr.nasa.gov/biodata/api/v2/datasets/?format=json")
	cfg.Upstream.APODURL = getEnv("NASA_APOD_URL", "https://api.nasa.gov/planetary/apod")
	cfg.Upstream.NEOURL = getEnv("NASA_NEO_URL", "https://api.nasa.gov/neo/rest/v1/feed")
	cfg.Upstream.DONKIURL = getEnv("NASA_DONKI_URL", "https://api.nasa.gov/DONKI")
	cfg.Upstream.SpaceXURL = getEnv("SPACEX_URL", "https://api.spacexdata.com/v4/launches/next")
	cfg.Upstream.APIKey = getEnv("NASA_API_KEY", "")

	// Повторы и таймауты исходящих запросов
	cfg.Fetch.Timeout = getEnvAsSeconds("HTTP_TIMEOUT_SECS", 30)
	cfg.Fetch.MaxRetries = getEnvAsInt("MAX_RETRIES", 3)
	cfg.Fetch.RetryDelay = getEnvAsSeconds("RETRY_DELAY_SECS", 2)

	// Интервалы фоновых задач
	cfg.Intervals.ISS = getEnvAsSeconds("ISS_EVERY_SECONDS", 120)
	cfg.Intervals.OSDR = getEnvAsSeconds("FETCH_EVERY_SECONDS", 600)
	cfg.Intervals.APOD = getEnvAsSeconds("APOD_EVERY_SECONDS", 43200)
	cfg.Intervals.NEO = getEnvAsSeconds("NEO_EVERY_SECONDS", 7200)
	cfg.Intervals.DONKI = getEnvAsSeconds("DONKI_EVERY_SECONDS", 3600)
	cfg.Intervals.SpaceX = getEnvAsSeconds("SPACEX_EVERY_SECONDS", 3600)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Second
}
