// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"larsbees/database"
	"larsbees/entities"
)

// NewDB returns a migrated, seeded sqlite database in t.TempDir().
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "larsbees.db")
	db, err := database.OpenSQLite(context.Background(), path, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func User(t *testing.T, db *gorm.DB, name string) entities.User {
	t.Helper()
	u := entities.User{
		Username:      name,
		Email:         fmt.Sprintf("%s@example.com", name),
		PasswordHash:  "x",
		IsActive:      true,
		CalendarToken: uuid.NewString(),
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func Site(t *testing.T, db *gorm.DB, uid uint, name string) entities.Site {
	t.Helper()
	s := entities.Site{UserID: uid, Name: name, IsActive: true}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create site: %v", err)
	}
	return s
}

func Hive(t *testing.T, db *gorm.DB, siteID uint, number string) entities.IndividualHive {
	t.Helper()
	h := entities.IndividualHive{SiteID: siteID, HiveNumber: number, IsActive: true}
	if err := db.Create(&h).Error; err != nil {
		t.Fatalf("create hive: %v", err)
	}
	return h
}

func TaskType(t *testing.T, db *gorm.DB, name string) entities.TaskType {
	t.Helper()
	var tt entities.TaskType
	if err := db.Where("name = ?", name).First(&tt).Error; err != nil {
		t.Fatalf("find task type %q: %v", name, err)
	}
	return tt
}

func SystemTemplate(t *testing.T, db *gorm.DB, name string) entities.TaskTemplate {
	t.Helper()
	var tpl entities.TaskTemplate
	if err := db.Where("name = ? AND is_system_template = ?", name, true).First(&tpl).Error; err != nil {
		t.Fatalf("find template %q: %v", name, err)
	}
	return tpl
}
