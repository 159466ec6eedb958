// Package repotest opens throwaway SQLite databases migrated from the models
// and seeds the rows repository and service tests build on.
package repotest

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/angelmondragon/wardrop-backend/pkg/db"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a db.Client over a private in-memory SQLite database.
func Open(t testing.TB) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:wardrop_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(log.New(io.Discard, "", 0), gormlogger.Config{LogLevel: gormlogger.Silent}),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db.NewFromConn(conn)
}

func MustCreateClient(t testing.TB, conn *gorm.DB, name string) *models.Client {
	t.Helper()
	phone := "+213555000111"
	client := &models.Client{FullName: name, Phone: &phone, WhatsApp: &phone}
	if err := conn.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func MustCreateDress(t testing.TB, conn *gorm.DB, name string, status enums.AvailabilityStatus) *models.Dress {
	t.Helper()
	dress := &models.Dress{
		Name:          name,
		Category:      "mariage",
		Size:          "M",
		Color:         "ivoire",
		RentalPrice:   decimal.RequireFromString("15000"),
		DepositAmount: decimal.RequireFromString("5000"),
		Status:        status,
	}
	if err := conn.Create(dress).Error; err != nil {
		t.Fatalf("create dress: %v", err)
	}
	return dress
}

func MustCreateClothing(t testing.TB, conn *gorm.DB, name string, stock int) *models.Clothing {
	t.Helper()
	cost := decimal.RequireFromString("1200")
	item := &models.Clothing{
		Name:          name,
		Category:      "accessoire",
		Size:          "U",
		Color:         "or",
		PurchasePrice: &cost,
		SalePrice:     decimal.RequireFromString("2500"),
		StockQuantity: stock,
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("create clothing: %v", err)
	}
	return item
}
