package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TagList stores a post's tags as a JSON array in a single text column.
// Tags are normalized to lowercase before they reach the database, so a
// `tags LIKE '%"term"%'` predicate performs an exact tag match.
type TagList []string

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = TagList{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tag list source type %T", src)
	}
}

// Post represents a blog post in the Inkwell application.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Slug      string `gorm:"uniqueIndex;not null" json:"slug"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Excerpt   string `json:"excerpt"`
	Published bool   `gorm:"index" json:"published"`
	// PublishedAt is nil iff the post is not currently published and has
	// never survived a publish. It is set on the draft->published
	// transition only; re-publishing an already published post keeps it.
	PublishedAt *time.Time     `json:"published_at"`
	Featured    bool           `json:"featured"`
	Tags        TagList        `gorm:"type:text" json:"tags"`
	CoverImage  string         `json:"cover_image"`
	ReadTime    int            `json:"read_time"`
	Views       int            `gorm:"not null;default:0" json:"views"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostPage is the paginated envelope returned by every post listing endpoint.
type PostPage struct {
	Posts   []*Post `json:"posts"`
	Total   int64   `json:"total"`
	HasMore bool    `json:"has_more"`
}

// EmptyPostPage returns the canonical empty result used when a listing
// matches nothing (for example a blank search query).
func EmptyPostPage() *PostPage {
	return &PostPage{Posts: []*Post{}, Total: 0, HasMore: false}
}

// UserPage is the paginated envelope returned by the admin user listing.
type UserPage struct {
	Users   []User `json:"users"`
	Total   int64  `json:"total"`
	HasMore bool   `json:"has_more"`
}
