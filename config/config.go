package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the gorm connection described by the environment. MySQL is the
// default; DB_DRIVER=sqlite switches to a local file, which is handy for
// development without a server.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "qr_order.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			envOr("DB_USER", "root"),
			os.Getenv("DB_PASSWORD"),
			envOr("DB_HOST", "127.0.0.1"),
			envOr("DB_PORT", "3306"),
			envOr("DB_NAME", "qr_order"),
		)
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// FrontendURL is the origin encoded into table QR codes.
func FrontendURL() string {
	return envOr("FRONTEND_URL", "http://localhost:3000")
}

// ServerURL is the public base URL used to build upload links.
func ServerURL() string {
	return envOr("SERVER_URL", "http://localhost:8080")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
