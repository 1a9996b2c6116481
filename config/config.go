package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Hold     HoldConfig
	Archive  ArchiveConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// HoldConfig hold TTL 範圍與過期掃描間隔
type HoldConfig struct {
	DefaultTTL    time.Duration
	MinTTL        time.Duration
	MaxTTL        time.Duration
	SweepInterval time.Duration
}

// ArchiveConfig 歷史紀錄隊列設定；Backend 為 "memory" 或 "redis"
type ArchiveConfig struct {
	Backend    string
	BufferSize int
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Hold:     GetHoldConfig(),
		Archive:  GetArchiveConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8081"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Hold: HoldConfig{
			DefaultTTL:    2 * time.Minute,
			MinTTL:        1 * time.Minute,
			MaxTTL:        10 * time.Minute,
			SweepInterval: 100 * time.Millisecond,
		},
		Archive: ArchiveConfig{Backend: "memory", BufferSize: 16},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnv("SERVER_PORT", "8080"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetHoldConfig() HoldConfig {
	return HoldConfig{
		DefaultTTL:    time.Duration(getEnvInt("HOLD_DEFAULT_TTL_MINUTES", 2)) * time.Minute,
		MinTTL:        time.Duration(getEnvInt("HOLD_MIN_TTL_MINUTES", 1)) * time.Minute,
		MaxTTL:        time.Duration(getEnvInt("HOLD_MAX_TTL_MINUTES", 10)) * time.Minute,
		SweepInterval: time.Duration(getEnvInt("HOLD_SWEEP_INTERVAL_SECONDS", 5)) * time.Second,
	}
}

func GetArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		Backend:    getEnv("ARCHIVE_QUEUE_BACKEND", "memory"),
		BufferSize: getEnvInt("ARCHIVE_QUEUE_BUFFER", 256),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		panic(err)
	}
	return n
}
