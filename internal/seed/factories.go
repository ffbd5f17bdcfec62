// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"penlight/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds posts and persists them to the database. It is a thin
// helper used by the seeder and tests.
type Factory struct {
	db     *gorm.DB
	topics []string
	rng    *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, topics []string) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		topics: topics,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildPost constructs a post without persisting it. Optional override
// functions may modify the generated post before use.
func (f *Factory) BuildPost(overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(gofakeit.Sentence(f.rng.Intn(5)+4), ".")
	post := &models.Post{
		Title:     title,
		Slug:      slugify(title) + fmt.Sprintf("-%d", gofakeit.Number(100, 999)),
		Excerpt:   gofakeit.Sentence(14),
		Content:   gofakeit.Paragraph(3, 5, 12, "\n\n"),
		Thumbnail: strPtr(fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID())),
	}

	// Most posts have a topic; some stay untagged.
	if len(f.topics) > 0 && f.rng.Intn(10) > 1 {
		topic := f.topics[f.rng.Intn(len(f.topics))]
		post.Topic = &topic
	}

	// realistic publication date spread over the last year
	daysBack := f.rng.Intn(365)
	hoursBack := f.rng.Intn(24)
	post.Date = time.Now().UTC().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a post.
func (f *Factory) CreatePost(overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("seed post %q: %w", post.Slug, err)
	}
	return post, nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func strPtr(s string) *string {
	return &s
}
