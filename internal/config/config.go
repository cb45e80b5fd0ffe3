package config

import (
	"errors"  // For validation errors
	"fmt"     // For error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For trimming values
	"time"    // For token lifetime parsing

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	BaseURL           string        // Public base URL used for invite links
	DBDriver          string        // Database driver: mysql or sqlite
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBPath            string        // SQLite database file
	JWTSecret         string        // JWT secret key
	JWTTTL            time.Duration // JWT lifetime
	RedisAddr         string        // Redis server address
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	IsProd            bool          // Is production environment
	LogLevel          string        // Logrus level name
	AssetCategories   string        // Optional CODE:Label,... override
	CategoriesFile    string        // Optional YAML category file, wins over AssetCategories
	SuperuserUsername string        // Bootstrap superuser name (migrate only)
	SuperuserPassword string        // Bootstrap superuser password (migrate only)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
	}
	port := getEnv("APP_PORT", "8080")
	return &Config{
		AppPort:           port, // Application port
		BaseURL:           strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+port), "/"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)), // Database driver
		DBUser:            os.Getenv("DB_USER"),                              // Database user
		DBPassword:        os.Getenv("DB_PASSWORD"),                          // Database password
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),                    // Database host
		DBPort:            getEnv("DB_PORT", "3306"),                         // Database port
		DBName:            os.Getenv("DB_NAME"),                              // Database name
		DBPath:            getEnv("DB_PATH", "./data/wealthwise.db"),         // SQLite file
		JWTSecret:         os.Getenv("JWT_SECRET"),                           // JWT secret key
		JWTTTL:            ttl,                                               // JWT lifetime
		RedisAddr:         os.Getenv("REDIS_ADDR"),                           // Redis server address
		RedisPass:         os.Getenv("REDIS_PASS"),                           // Redis password
		RedisDB:           redisDB,                                           // Redis database number
		IsProd:            os.Getenv("IS_PROD") == "true",                    // Is production environment
		LogLevel:          getEnv("LOG_LEVEL", "info"),                       // Log level
		AssetCategories:   os.Getenv("ASSET_CATEGORIES"),                     // Category override
		CategoriesFile:    os.Getenv("ASSET_CATEGORIES_FILE"),                // Category file
		SuperuserUsername: os.Getenv("SUPERUSER_USERNAME"),                   // Bootstrap superuser
		SuperuserPassword: os.Getenv("SUPERUSER_PASSWORD"),                   // Bootstrap password
	}
}

// Supported database drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Validate reports configuration that the server cannot start with
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.DBName == "" {
			errs = append(errs, errors.New("DB_NAME is required for mysql"))
		}
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	return errors.Join(errs...)
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
