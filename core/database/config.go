package database

import (
	"fmt"
	"net/url"
	"time"
)

// Config selects and reaches the database backing the sql store driver.
type Config struct {
	Driver string `mapstructure:"driver" default:"sqlite"`
	Host   string `mapstructure:"host" default:"localhost"`
	Port   int    `mapstructure:"port" default:"3306"`
	User   string `mapstructure:"user" default:"root"`
	// Password may hold any character; it is escaped in the DSN.
	Password string `mapstructure:"password" default:""`
	// Name is the schema for mysql and the file path for sqlite.
	Name string `mapstructure:"name" default:"inventory.db"`
	// TimeoutSeconds bounds the dial, every read and write, and the start-up ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	MaxOpenConns   int `mapstructure:"max_open_conns" default:"20"`
	MaxIdleConns   int `mapstructure:"max_idle_conns" default:"5"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// dsn builds the go-sql-driver/mysql data source name.
func (c Config) dsn(timeout time.Duration) string {
	q := url.Values{}
	q.Set("charset", "utf8mb4")
	q.Set("parseTime", "true")
	q.Set("loc", "Local")
	for _, k := range []string{"timeout", "readTimeout", "writeTimeout"} {
		q.Set(k, timeout.String())
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?%s", url.UserPassword(c.User, c.Password).String(), c.Host, c.Port, c.Name, q.Encode())
}
