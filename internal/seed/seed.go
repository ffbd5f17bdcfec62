package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"penlight/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumPosts  int
	NumPinned int
	Topics    []string
}

// DefaultOptions returns the seeding profile used by SeedIfEmpty.
func DefaultOptions() Options {
	return Options{
		NumPosts:  24,
		NumPinned: 2,
		Topics:    []string{"TECHNOLOGY", "HEALTH", "LIFESTYLE", "EDUCATION", "ENTERTAINMENT"},
	}
}

// Seeder populates the database with generated demo posts.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes all posts. Development use only.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing posts...")
	if err := s.db.Exec("DELETE FROM post").Error; err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	return nil
}

// SeedPosts generates opts.NumPosts demo posts, pins a few of the most
// recent ones and cross-links some posts as curated related reading.
func (s *Seeder) SeedPosts(opts Options) ([]*models.Post, error) {
	factory := NewFactory(s.db, opts.Topics)

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		post, err := factory.CreatePost()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	// Pin a handful so the pinned-first ordering has something to show.
	for i := 0; i < opts.NumPinned && i < len(posts); i++ {
		post := posts[s.rng.Intn(len(posts))]
		post.Pinned = true
		if err := s.db.Save(post).Error; err != nil {
			return nil, fmt.Errorf("pin post %q: %w", post.Slug, err)
		}
	}

	// Curate related links on roughly a third of the posts.
	for _, post := range posts {
		if s.rng.Intn(3) != 0 || len(posts) < 4 {
			continue
		}
		var related models.StringList
		for len(related) < 2 {
			candidate := posts[s.rng.Intn(len(posts))]
			if candidate.ID == post.ID || contains(related, candidate.ID) {
				continue
			}
			related = append(related, candidate.ID)
		}
		post.RelatedArticles = related
		if err := s.db.Save(post).Error; err != nil {
			return nil, fmt.Errorf("link post %q: %w", post.Slug, err)
		}
	}

	log.Printf("Seeded %d posts (%d pinned)", len(posts), opts.NumPinned)
	return posts, nil
}

// SeedIfEmpty seeds the default demo data set when no posts exist yet.
// Posts are tagged from the supplied topic labels; an empty slice falls
// back to the default set.
func (s *Seeder) SeedIfEmpty(topics []string) error {
	var count int64
	if err := s.db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if count > 0 {
		return nil
	}
	opts := DefaultOptions()
	if len(topics) > 0 {
		opts.Topics = topics
	}
	_, err := s.SeedPosts(opts)
	return err
}

func contains(list models.StringList, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
