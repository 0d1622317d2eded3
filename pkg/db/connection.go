package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MaxRetries      int
}

// DriverConfig builds the mysql driver configuration. Timestamps are read and
// written in UTC and utf8mb4 is forced so contractor names survive any script.
func (c Config) DriverConfig() *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Collation = "utf8mb4_unicode_ci"
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc
}

// Connection wraps sql.DB
type Connection struct {
	DB *sql.DB
}

// NewConnection opens the pool and pings it, retrying with a linear backoff
func NewConnection(ctx context.Context, cfg Config) (*Connection, error) {
	connector, err := mysql.NewConnector(cfg.DriverConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	db := sql.OpenDB(connector)
	ConfigurePool(db, cfg)

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return &Connection{DB: db}, nil
		}

		if i == maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Second * time.Duration(i+1)):
		}
	}

	db.Close()
	return nil, fmt.Errorf("failed to ping database after %d attempts: %w", maxRetries, err)
}

// ConfigurePool applies pool settings, falling back to defaults for zero values
func ConfigurePool(db *sql.DB, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(25)
	}

	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(5)
	}

	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}

// Ping verifies connection is alive
func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}
