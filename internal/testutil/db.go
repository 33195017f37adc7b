// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

var testPasswordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// NewTestDB opens a private in-memory SQLite database with the full schema.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an active, unbanned user. Mutators run before the insert.
func CreateUser(t testing.TB, db *gorm.DB, username string, mutators ...func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		PasswordHash: testPasswordHash,
		Name:         username,
		Availability: models.AvailabilityAnytime,
		Visibility:   models.VisibilityPublic,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	for _, m := range mutators {
		m(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// AsAdmin is a CreateUser mutator granting the admin role.
func AsAdmin(u *models.User) { u.Role = models.RoleAdmin }

// Banned is a CreateUser mutator marking the account banned.
func Banned(u *models.User) { u.IsBanned = true }

// Inactive is a CreateUser mutator for a deactivated account.
func Inactive(u *models.User) { u.IsActive = false }

// Private is a CreateUser mutator hiding the profile.
func Private(u *models.User) { u.Visibility = models.VisibilityPrivate }

func CreateOfferedSkill(t testing.TB, db *gorm.DB, userID uint, name string, status models.SkillStatus) *models.SkillOffered {
	t.Helper()
	s := &models.SkillOffered{UserID: userID, Name: name, Status: status}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create offered skill %s: %v", name, err)
	}
	return s
}

func CreateWantedSkill(t testing.TB, db *gorm.DB, userID uint, name string) *models.SkillWanted {
	t.Helper()
	s := &models.SkillWanted{UserID: userID, Name: name}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create wanted skill %s: %v", name, err)
	}
	return s
}

// CreateSwap inserts a swap directly in the given status.
func CreateSwap(t testing.TB, db *gorm.DB, requesterID, providerID uint, status models.SwapStatus) *models.Swap {
	t.Helper()
	s := &models.Swap{RequesterID: requesterID, ProviderID: providerID, Status: status}
	if status == models.SwapStatusCompleted {
		now := time.Now().UTC()
		s.CompletedAt = &now
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create swap: %v", err)
	}
	return s
}
