package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/pinmapa/pinmapa-backend/internal/config"
	_ "github.com/lib/pq"

	"github.com/sirupsen/logrus"
)

// InitDB initializes the PostgreSQL database connection with connection pooling using the provided logger and config.
// Returns a *sql.DB instance for database operations. Ensures the connection is valid before returning.
func InitDB(logger *logrus.Logger, config *config.Config) *sql.DB {
	// Build the PostgreSQL connection URL from config values
	// URL-encode the password to handle special characters
	encodedPassword := url.QueryEscape(config.DBPassword)
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		config.DBUser, encodedPassword, config.DBHost, config.DBPort, config.DBName)

	// Open a new database connection
	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal("Cannot open DB: ", err)
	}

	// Configure connection pooling settings
	configureConnectionPool(conn, config)

	// Ping the database to ensure the connection is valid
	if err := conn.Ping(); err != nil {
		logger.Fatal("Cannot ping DB: ", err)
	}

	// Log connection pool configuration
	logger.WithFields(logrus.Fields{
		"max_open_conns":     config.DBMaxOpenConns,
		"max_idle_conns":     config.DBMaxIdleConns,
		"conn_max_lifetime":  fmt.Sprintf("%dm", config.DBConnMaxLifetime),
		"conn_max_idle_time": fmt.Sprintf("%dm", config.DBConnMaxIdleTime),
	}).Info("Database connection pool configured")

	// Return the database connection for use by repositories and services
	return conn
}

// configureConnectionPool sets up the connection pool from config. Lifetime
// limits keep stale connections from being reused after the database has
// closed them.
func configureConnectionPool(db *sql.DB, config *config.Config) {
	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetime) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleTime) * time.Minute)
}

// GetConnectionStats returns current connection pool statistics for monitoring
func GetConnectionStats(db *sql.DB) map[string]interface{} {
	stats := db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}
