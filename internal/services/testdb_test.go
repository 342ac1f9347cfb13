package services

import (
	"fmt"
	"testing"

	"github.com/1234-ad/addressbook-fullstack/internal/database"
	"github.com/1234-ad/addressbook-fullstack/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating models: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@test.local",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed seeding user %s: %v", username, err)
	}
	return user
}

func seedGroup(t *testing.T, db *gorm.DB, name string, createdBy uint) *models.Group {
	t.Helper()

	group := &models.Group{Name: name, CreatedByID: createdBy}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed seeding group %s: %v", name, err)
	}
	return group
}

func seedAddress(t *testing.T, db *gorm.DB, ownerID uint, fullName string) *models.Address {
	t.Helper()

	entry := &models.Address{OwnerID: ownerID, FullName: fullName}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed seeding address %s: %v", fullName, err)
	}
	return entry
}

func seedAddresses(t *testing.T, db *gorm.DB, ownerID uint, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		seedAddress(t, db, ownerID, fmt.Sprintf("Contact %02d", i))
	}
}

func assignmentCount(t *testing.T, db *gorm.DB, addressID uint) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.AddressGroup{}).Where("address_id = ?", addressID).Count(&count).Error; err != nil {
		t.Fatalf("failed counting assignments: %v", err)
	}
	return count
}
