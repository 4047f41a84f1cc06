package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the application, loaded from
// environment variables or the .env file. The JWT secret and validity window
// are read once here and injected explicitly; nothing reads them from
// ambient state afterwards, so rotating the secret is a redeploy.
type Config struct {
	Port              string // HTTP server port
	Env               string // Application environment (e.g., development, production)
	DebugMode         bool   // When true, 500 responses carry the underlying error detail
	DBUser            string // Database user
	DBPort            string // Database port
	DBHost            string // Database host
	DBName            string // Database name
	DBPassword        string // Database password
	DBMaxOpenConns    int    // Maximum open database connections
	DBMaxIdleConns    int    // Maximum idle database connections
	DBConnMaxLifetime int    // Connection max lifetime in minutes
	DBConnMaxIdleTime int    // Connection max idle time in minutes
	JWTSecret         string // Shared secret for signing tokens
	JWTExpiry         int    // Token validity window in seconds
	JWTRequireExp     bool   // Reject tokens that carry no exp claim
}

// Load reads configuration from the .env file and environment variables,
// returning a Config struct. A missing .env file is fine; environment
// variables alone can configure the process.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DEBUG_MODE", false)
	viper.SetDefault("DB_USER", "pinmapa_user")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_NAME", "pinmapa")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 30) // minutes
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 5) // minutes
	viper.SetDefault("JWT_EXPIRY", 604800)       // 7 days in seconds
	viper.SetDefault("JWT_REQUIRE_EXP", false)
	if err := viper.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		Port:              viper.GetString("PORT"),
		Env:               viper.GetString("ENV"),
		DebugMode:         viper.GetBool("DEBUG_MODE"),
		DBUser:            viper.GetString("DB_USER"),
		DBPort:            viper.GetString("DB_PORT"),
		DBHost:            viper.GetString("DB_HOST"),
		DBName:            viper.GetString("DB_NAME"),
		DBPassword:        viper.GetString("DB_PASSWORD"),
		DBMaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: viper.GetInt("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: viper.GetInt("DB_CONN_MAX_IDLE_TIME"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		JWTExpiry:         viper.GetInt("JWT_EXPIRY"),
		JWTRequireExp:     viper.GetBool("JWT_REQUIRE_EXP"),
	}, nil
}
