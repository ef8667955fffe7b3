// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var topics = []string{
	"go", "databases", "testing", "architecture", "devops",
	"frontend", "career", "open-source", "performance", "security",
	"kubernetes", "tooling", "api-design", "observability", "writing",
}

// Run seeds the database with users and posts.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users failed: %w", err)
	}
	log.Printf("Created %d users", len(users))

	count, err := seedPosts(db, users, opts.NumPosts, r)
	if err != nil {
		return fmt.Errorf("seed posts failed: %w", err)
	}
	log.Printf("Created %d posts", count)

	return nil
}

// Clean removes all seeded rows. Settings are kept.
func Clean(db *gorm.DB) error {
	if err := db.Unscoped().Where("1 = 1").Delete(&models.Post{}).Error; err != nil {
		return err
	}
	return db.Unscoped().Where("1 = 1").Delete(&models.User{}).Error
}

func seedUsers(db *gorm.DB, n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Seeded-Password1!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		role := models.RolePoster
		if i == 0 {
			role = models.RoleAdmin
		}
		users = append(users, models.User{
			Name:     name,
			Email:    fmt.Sprintf("%s.%d@%s", strings.ToLower(gofakeit.Username()), i, gofakeit.DomainName()),
			Password: string(hashed),
			Role:     role,
			IsActive: true,
			Avatar:   fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		})
	}
	if err := db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func seedPosts(db *gorm.DB, users []models.User, n int, r *rand.Rand) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	created := 0
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]
		title := strings.TrimSuffix(gofakeit.Sentence(r.Intn(6)+3), ".")
		content := gofakeit.Paragraph(r.Intn(4)+2, 4, 12, "\n\n")

		tagCount := r.Intn(4)
		tags := make(models.TagList, 0, tagCount)
		for len(tags) < tagCount {
			t := topics[r.Intn(len(topics))]
			if !contains(tags, t) {
				tags = append(tags, t)
			}
		}

		published := r.Intn(100) < 80
		post := models.Post{
			Slug:      fmt.Sprintf("%s-%d", slug.Make(title), i),
			Title:     title,
			Content:   content,
			Excerpt:   gofakeit.Sentence(12),
			Published: published,
			Featured:  published && r.Intn(100) < 10,
			Tags:      tags,
			ReadTime:  len(strings.Fields(content))/200 + 1,
			Views:     r.Intn(5000),
			AuthorID:  author.ID,
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(180*24)) * time.Hour),
		}
		if published {
			at := post.CreatedAt.Add(time.Duration(r.Intn(48)) * time.Hour)
			post.PublishedAt = &at
		}

		if err := db.Create(&post).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func contains(tags models.TagList, t string) bool {
	for _, existing := range tags {
		if existing == t {
			return true
		}
	}
	return false
}
