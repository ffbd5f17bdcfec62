// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"penlight/internal/cache"
	"penlight/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Resolve(ctx context.Context, slugOrID string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByTopic(ctx context.Context, topic string, exclude []string, limit int) ([]*models.Post, error)
	ListLatest(ctx context.Context, exclude []string, limit int) ([]*models.Post, error)
	ListLatestExcludingTopic(ctx context.Context, topic string, exclude []string, limit int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit int) ([]*models.PostSummary, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyOrdering appends the global ordering policy: pinned posts first,
// then most recent publication date. Every listing surface uses it so
// pagination stays deterministic across pages.
func applyOrdering(db *gorm.DB) *gorm.DB {
	return db.Order("pinned DESC, date DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewDuplicateSlugError(post.Slug)
		}
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", slug)
		}
		return nil, err
	}
	return &post, nil
}

// Resolve looks a post up by slug first, then by id, returning NotFound
// only when both miss. Results are served cache-aside under the lookup
// token; writes invalidate both of a post's tokens.
func (r *postRepository) Resolve(ctx context.Context, slugOrID string) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(slugOrID), &post, cache.PostTTL, func() error {
		found, err := r.GetBySlug(ctx, slugOrID)
		if err == nil {
			post = *found
			return nil
		}
		if !models.IsCode(err, "NOT_FOUND") {
			return err
		}
		found, err = r.GetByID(ctx, slugOrID)
		if err != nil {
			return err
		}
		post = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyOrdering(r.db.WithContext(ctx)).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByTopic(ctx context.Context, topic string, exclude []string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).Where("topic = ?", topic)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	err := applyOrdering(q).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListLatest(ctx context.Context, exclude []string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	err := applyOrdering(q.Model(&models.Post{})).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListLatestExcludingTopic(ctx context.Context, topic string, exclude []string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).Where("topic IS NULL OR topic <> ?", topic)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	err := applyOrdering(q).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Search matches the query as a case-insensitive substring of the title
// only, projected down to the fields the autocomplete UI renders.
// LOWER(...) LIKE instead of ILIKE keeps the postgres and sqlite (test)
// dialects behaviorally identical.
func (r *postRepository) Search(ctx context.Context, query string, limit int) ([]*models.PostSummary, error) {
	var results []*models.PostSummary
	like := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("id, title, slug, excerpt, thumbnail").
		Where("LOWER(title) LIKE ?", like).
		Order("date DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewDuplicateSlugError(post.Slug)
		}
		return err
	}
	cache.InvalidatePost(ctx, post.Slug, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.Slug, post.ID)
	return nil
}

// isDuplicateKey detects unique-constraint violations across drivers.
// GORM's TranslateError covers postgres and sqlite; the string checks
// are a fallback for raw driver errors (e.g. through sqlmock).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
