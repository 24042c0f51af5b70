// Package testdb opens throwaway in-memory databases with the service schema applied.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"roadtrip/internal/models/db_models"
)

// Open returns a gorm handle on a private in-memory SQLite database, closed when t finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the memory database alive and serialises transactions
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(db_models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedAccount inserts an account with the given display name.
func SeedAccount(t testing.TB, db *gorm.DB, name string) *db_models.Account {
	t.Helper()

	account := &db_models.Account{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

// SeedRoadTrip inserts a trip owned by owner, with owner and members as participants.
func SeedRoadTrip(t testing.TB, db *gorm.DB, name string, owner *db_models.Account, members ...*db_models.Account) *db_models.RoadTrip {
	t.Helper()

	trip := &db_models.RoadTrip{Name: name, OwnerID: owner.ID}
	trip.Members = append(trip.Members, *owner)
	for _, m := range members {
		trip.Members = append(trip.Members, *m)
	}
	if err := db.Omit("Members.*").Create(trip).Error; err != nil {
		t.Fatalf("seed road trip: %v", err)
	}
	return trip
}
