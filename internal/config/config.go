package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
}

type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	Environment string
	AppId       string
	CORSOrigins string

	// AutomationSchedule is a robfig/cron spec for the periodic inactivity pass
	AutomationSchedule string
	SchedulerEnabled   bool
	RunLockTTL         time.Duration

	Redis RedisConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:             getEnv("DB_NAME", "firm-crm"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		AppId:              getEnv("APP_ID", "firm-crm"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),
		AutomationSchedule: getEnv("AUTOMATION_SCHEDULE", "@every 1h"),
		SchedulerEnabled:   getEnv("AUTOMATION_SCHEDULER_ENABLED", "true") == "true",
		RunLockTTL:         getEnvDuration("RUN_LOCK_TTL", 5*time.Minute),
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration for %s (%q), using %s", key, value, fallback)
		return fallback
	}
	return d
}
