package seed

import (
	"testing"

	"penlight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}))
	return db
}

func TestSeedPosts(t *testing.T) {
	db := setupSeedDB(t)
	opts := Options{NumPosts: 12, NumPinned: 2, Topics: []string{"TECHNOLOGY", "HEALTH"}}

	posts, err := NewSeeder(db).SeedPosts(opts)
	require.NoError(t, err)
	require.Len(t, posts, 12)

	var stored []*models.Post
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 12)

	pinned := 0
	slugs := map[string]bool{}
	byID := map[string]bool{}
	for _, p := range stored {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.False(t, slugs[p.Slug], "slug %q repeated", p.Slug)
		slugs[p.Slug] = true
		byID[p.ID] = true
		if p.Pinned {
			pinned++
		}
		if p.Topic != nil {
			assert.Contains(t, opts.Topics, *p.Topic)
		}
	}
	// Random picks may land on the same post twice, so pinned is a range.
	assert.GreaterOrEqual(t, pinned, 1)
	assert.LessOrEqual(t, pinned, opts.NumPinned)

	for _, p := range stored {
		for _, id := range p.RelatedArticles {
			assert.NotEqual(t, p.ID, id, "post %q links to itself", p.Slug)
			assert.True(t, byID[id], "post %q links to unknown id %q", p.Slug, id)
		}
	}
}

func TestSeedIfEmpty_SkipsPopulatedDatabase(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, db.Create(&models.Post{Title: "Existing", Slug: "existing"}).Error)
	require.NoError(t, s.SeedIfEmpty(nil))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSeedIfEmpty_UsesConfiguredTopics(t *testing.T) {
	db := setupSeedDB(t)
	topics := []string{"SCIENCE", "TRAVEL"}

	require.NoError(t, NewSeeder(db).SeedIfEmpty(topics))

	var stored []*models.Post
	require.NoError(t, db.Find(&stored).Error)
	require.NotEmpty(t, stored)
	for _, p := range stored {
		if p.Topic != nil {
			assert.Contains(t, topics, *p.Topic)
		}
	}
}

func TestClearAll(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	_, err := s.SeedPosts(Options{NumPosts: 3, NumPinned: 1, Topics: nil})
	require.NoError(t, err)
	require.NoError(t, s.ClearAll())

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}
