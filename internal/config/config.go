package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const DefaultPort = "3001"

type Config struct {
	Port string
	Env  string

	LogLevel string

	AllowedOrigins      []string
	AllowedOriginSuffix string

	TickInterval  time.Duration
	RevealDelay   time.Duration
	StatsInterval time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	WordsCSV    string
	PostgresURL string
	HideWord    bool
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("[config.Load] could not read .env")
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Port:                port(),
		Env:                 getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:      getEnvList("ALLOWED_ORIGINS"),
		AllowedOriginSuffix: strings.TrimSpace(os.Getenv("ALLOWED_ORIGIN_SUFFIX")),
		TickInterval:        getEnvDuration("TICK_INTERVAL", time.Second),
		RevealDelay:         getEnvDuration("REVEAL_DELAY", 3*time.Second),
		StatsInterval:       getEnvDuration("STATS_INTERVAL", 10*time.Second),
		RateLimitRPS:        getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 40),
		WordsCSV:            strings.TrimSpace(os.Getenv("WORDS_CSV")),
		PostgresURL:         strings.TrimSpace(os.Getenv("POSTGRES_URL")),
		HideWord:            getEnvBool("HIDE_WORD", false),
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	if p := os.Getenv("SERVER_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", val).Dur("default", fallback).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Warn().Str("key", key).Str("value", val).Int("default", fallback).Msg("Invalid int, using default")
		return fallback
	}
	return i
}

func getEnvFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", val).Float64("default", fallback).Msg("Invalid float, using default")
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Warn().Str("key", key).Str("value", val).Bool("default", fallback).Msg("Invalid bool, using default")
		return fallback
	}
	return b
}
