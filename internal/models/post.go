// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is a []string persisted as a JSON column.
type StringList []string

// Post is the single persisted entity: a rich-text blog post. Title,
// excerpt and content are opaque HTML fragments stored exactly as
// received; the server never parses or sanitizes them.
type Post struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt string `gorm:"type:text" json:"excerpt"`
	Content string `gorm:"type:text" json:"content"`
	// Thumbnail holds an embedded data URI; nil falls back to the
	// client's placeholder image at render time.
	Thumbnail *string `gorm:"type:text" json:"thumbnail"`
	// Topic is one of the deployment-configured labels, or nil.
	Topic  *string `gorm:"index" json:"topic"`
	Pinned bool    `gorm:"default:false;index" json:"pinned"`
	// FontSize is a display hint for the reader view, opaque to the server.
	FontSize string `gorm:"default:16px" json:"fontSize"`
	// RelatedArticles is the admin-curated, ordered list of post IDs.
	// Entries may dangle after a later deletion; readers filter them out.
	RelatedArticles StringList `gorm:"serializer:json" json:"relatedArticles"`
	// Date is the publication timestamp, assigned at creation and
	// immutable thereafter. Distinct from the audit timestamps below.
	Date      time.Time `gorm:"not null;index" json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the original deployment's singular table name.
func (Post) TableName() string { return "post" }

// BeforeCreate assigns the ID and publication date if the caller did not.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	if p.FontSize == "" {
		p.FontSize = "16px"
	}
	return nil
}

// PostSummary is the projection returned by title search.
type PostSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Excerpt   string  `json:"excerpt"`
	Thumbnail *string `json:"thumbnail"`
}
