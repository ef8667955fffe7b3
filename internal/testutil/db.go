// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"inkwell/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Uint64

// NewTestDB opens a fresh in-memory SQLite database with the full schema
// migrated. Each call gets its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// A single connection keeps the shared in-memory database alive for the
	// duration of the test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Setting{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// CreateUser inserts a user with sane defaults, applying any overrides.
func CreateUser(t *testing.T, db *gorm.DB, overrides ...func(*models.User)) *models.User {
	t.Helper()

	n := dbSeq.Add(1)
	user := &models.User{
		Name:     fmt.Sprintf("User %d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Role:     models.RolePoster,
		IsActive: true,
	}
	for _, o := range overrides {
		o(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

// AsAdmin marks a fixture user as an active admin.
func AsAdmin(u *models.User) {
	u.Role = models.RoleAdmin
}

// CreatePost inserts a published post with sane defaults, applying any
// overrides.
func CreatePost(t *testing.T, db *gorm.DB, authorID uint, overrides ...func(*models.Post)) *models.Post {
	t.Helper()

	n := dbSeq.Add(1)
	now := time.Now().UTC()
	post := &models.Post{
		Slug:        fmt.Sprintf("post-%d", n),
		Title:       fmt.Sprintf("Post %d", n),
		Content:     "Some content for the post body.",
		Published:   true,
		PublishedAt: &now,
		ReadTime:    1,
		AuthorID:    authorID,
	}
	for _, o := range overrides {
		o(post)
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return post
}

// AsDraft marks a fixture post as unpublished.
func AsDraft(p *models.Post) {
	p.Published = false
	p.PublishedAt = nil
}
