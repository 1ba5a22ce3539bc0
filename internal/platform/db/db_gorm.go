// Package db opens the application database and runs migrations.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	authentity "stock_trading_backend/internal/feature/auth/domain/entity"
	instrentity "stock_trading_backend/internal/feature/instruments/domain/entity"
	mhentity "stock_trading_backend/internal/feature/markethours/domain/entity"
	pfentity "stock_trading_backend/internal/feature/portfolio/domain/entity"
	quoteadapters "stock_trading_backend/internal/feature/quotes/adapters"
)

// OpenDB connects to MySQL with a bounded retry loop and, when
// RUN_MIGRATIONS=true, migrates the schema.
func OpenDB() *gorm.DB {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		user, pass, host, port, name)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&authentity.User{},
			&instrentity.Instrument{},
			&pfentity.Holding{},
			&pfentity.Transaction{},
			&mhentity.MarketHours{},
			&quoteadapters.QuoteModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
