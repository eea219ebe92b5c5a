package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
)

// Storage backends for user and project snapshots
const (
	StorageDatabase = "database"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Session stores
const (
	SessionStoreRedis  = "redis"
	SessionStoreCookie = "cookie"
)

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string
	LogFormat   string

	StorageBackend string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPath         string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SessionStore  string
	SessionSecret string

	CORSAllowedOrigins []string

	VerifyPasswords        bool
	ScopeAssigneeToProject bool

	ReminderSchedule  string
	RenewalWindowDays int

	PostsBaseURL        string
	PostsTimeoutSeconds int

	OpenAIAPIKey string
}

// Load reads configuration from the environment. A .env file is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageDatabase),
		DBDriver:       getEnv("DB_DRIVER", DriverMySQL),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "tracker"),
		DBPassword:     getEnv("DB_PASSWORD", "trackerpassword"),
		DBName:         getEnv("DB_NAME", "project_tracker"),
		DBPath:         getEnv("DB_PATH", "project_tracker.db"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SessionStore:  getEnv("SESSION_STORE", SessionStoreRedis),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		VerifyPasswords:        getEnvAsBool("AUTH_VERIFY_PASSWORDS", false),
		ScopeAssigneeToProject: getEnvAsBool("AUTH_SCOPE_ASSIGNEE_TO_PROJECT", false),

		ReminderSchedule:  getEnv("REMINDER_SCHEDULE", "0 0 8 * * *"),
		RenewalWindowDays: getEnvAsInt("RENEWAL_WINDOW_DAYS", constants.DefaultRenewalWindowDays),

		PostsBaseURL:        getEnv("POSTS_BASE_URL", "https://crud-backend-nikita-kumaris-projects.vercel.app"),
		PostsTimeoutSeconds: getEnvAsInt("POSTS_TIMEOUT_SECONDS", 15),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

// Validate rejects unknown enum values and impossible numbers.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageDatabase, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", c.DBDriver)
	}

	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreCookie:
	default:
		return fmt.Errorf("invalid SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.RenewalWindowDays < 0 {
		return fmt.Errorf("RENEWAL_WINDOW_DAYS must not be negative")
	}
	if c.PostsTimeoutSeconds <= 0 {
		return fmt.Errorf("POSTS_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release" || c.Environment == "production"
}

// RedisAddr joins the redis host and port.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// UsesRedis reports whether any component needs a redis connection.
func (c *Config) UsesRedis() bool {
	return c.StorageBackend == StorageRedis || c.SessionStore == SessionStoreRedis
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
