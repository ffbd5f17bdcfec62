// Package service holds the business rules on top of the repositories.
package service

import (
	"context"
	"strings"

	"penlight/internal/models"
	"penlight/internal/repository"
)

// RelatedLimit is the number of related posts resolved for the detail view.
const RelatedLimit = 3

// SearchLimit caps autocomplete search results.
const SearchLimit = 10

// PostService owns post validation, the ordering/related-post policies
// and pagination.
type PostService struct {
	repo   repository.PostRepository
	topics models.TopicSet
}

// NewPostService creates a PostService bound to the given repository and
// deployment topic set.
func NewPostService(repo repository.PostRepository, topics models.TopicSet) *PostService {
	return &PostService{repo: repo, topics: topics}
}

// CreatePostInput carries the authoring payload. Topic is loosely typed
// because older admin clients send either a label or a positional number.
type CreatePostInput struct {
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	Thumbnail       *string
	Topic           any
	Pinned          bool
	FontSize        string
	RelatedArticles []string
}

// UpdatePostInput is a partial update: nil pointer fields were absent
// from the payload and keep their prior values. Topic, Thumbnail and
// RelatedArticles distinguish "absent" from "explicitly null" — null
// clears the field.
type UpdatePostInput struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Pinned   *bool
	FontSize *string

	Thumbnail    *string
	ThumbnailSet bool

	Topic    any
	TopicSet bool

	RelatedArticles []string
	RelatedSet      bool
	RelatedNull     bool
}

// Create validates and persists a new post. Title and slug are required;
// an unrecognized topic stores as absent rather than failing.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Slug) == "" {
		return nil, models.NewValidationError("title and slug required")
	}

	post := &models.Post{
		Title:           in.Title,
		Slug:            in.Slug,
		Excerpt:         in.Excerpt,
		Content:         in.Content,
		Thumbnail:       in.Thumbnail,
		Topic:           s.topics.NormalizeValue(in.Topic),
		Pinned:          in.Pinned,
		FontSize:        in.FontSize,
		RelatedArticles: sanitizeRelated(in.RelatedArticles, ""),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get resolves a post by slug or id.
func (s *PostService) Get(ctx context.Context, slugOrID string) (*models.Post, error) {
	return s.repo.Resolve(ctx, slugOrID)
}

// List returns all posts in the global order (pinned first, then newest).
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.repo.List(ctx)
}

// Search returns up to SearchLimit summaries whose title contains the
// query, case-insensitively. A blank query returns an empty result
// rather than everything.
func (s *PostService) Search(ctx context.Context, query string) ([]*models.PostSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.PostSummary{}, nil
	}
	results, err := s.repo.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Update applies a partial update to the post with the given id.
func (s *PostService) Update(ctx context.Context, id string, in UpdatePostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Pinned != nil {
		post.Pinned = *in.Pinned
	}
	if in.FontSize != nil {
		post.FontSize = *in.FontSize
	}
	if in.ThumbnailSet {
		post.Thumbnail = in.Thumbnail
	}
	if in.TopicSet {
		post.Topic = s.topics.NormalizeValue(in.Topic)
	}
	if in.RelatedSet {
		if in.RelatedNull {
			post.RelatedArticles = nil
		} else {
			post.RelatedArticles = sanitizeRelated(in.RelatedArticles, post.ID)
		}
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post permanently. Other posts' curated lists may now
// dangle; readers filter those out.
func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Related resolves up to limit related posts for the post identified by
// slugOrID, in three tiers: the admin-curated list in its original
// order, then same-topic posts, then the latest posts overall with a
// soft preference for other topics. No tier re-sorts an earlier tier's
// picks; the result never contains the post itself or a duplicate.
func (s *PostService) Related(ctx context.Context, slugOrID string, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = RelatedLimit
	}

	post, err := s.repo.Resolve(ctx, slugOrID)
	if err != nil {
		return nil, err
	}

	picked := make([]*models.Post, 0, limit)
	seen := map[string]bool{post.ID: true}

	// Tier 1: curated links, curation order preserved. Dangling ids
	// (deleted posts) and self-references are silently dropped.
	for _, id := range post.RelatedArticles {
		if len(picked) >= limit {
			break
		}
		if seen[id] {
			continue
		}
		candidate, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if models.IsCode(err, "NOT_FOUND") {
				continue
			}
			return nil, err
		}
		seen[candidate.ID] = true
		picked = append(picked, candidate)
	}

	// Tier 2: same topic, global ordering.
	if len(picked) < limit && post.Topic != nil {
		more, err := s.repo.ListByTopic(ctx, *post.Topic, keys(seen), limit-len(picked))
		if err != nil {
			return nil, err
		}
		for _, p := range more {
			seen[p.ID] = true
			picked = append(picked, p)
		}
	}

	// Tier 3: latest overall. Other-topic posts are preferred but the
	// preference is soft: same-topic posts top the tier up when the
	// corpus would otherwise leave it short.
	if len(picked) < limit {
		var (
			more []*models.Post
			err  error
		)
		if post.Topic != nil {
			more, err = s.repo.ListLatestExcludingTopic(ctx, *post.Topic, keys(seen), limit-len(picked))
		} else {
			more, err = s.repo.ListLatest(ctx, keys(seen), limit-len(picked))
		}
		if err != nil {
			return nil, err
		}
		for _, p := range more {
			seen[p.ID] = true
			picked = append(picked, p)
		}

		if len(picked) < limit {
			topUp, err := s.repo.ListLatest(ctx, keys(seen), limit-len(picked))
			if err != nil {
				return nil, err
			}
			for _, p := range topUp {
				seen[p.ID] = true
				picked = append(picked, p)
			}
		}
	}

	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked, nil
}

// sanitizeRelated drops blank entries, duplicates and any reference to
// selfID, preserving order. An empty result stores as nil (absent).
func sanitizeRelated(ids []string, selfID string) models.StringList {
	if len(ids) == 0 {
		return nil
	}
	out := make(models.StringList, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == selfID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
