package service

import (
	"context"
	"strings"

	"penlight/internal/models"
)

// DefaultPageSize is used when a paged listing request omits pageSize.
const DefaultPageSize = 6

// Page is one slice of a filtered, ordered listing.
type Page struct {
	Items      []*models.Post `json:"items"`
	TotalPages int            `json:"totalPages"`
}

// FilterTitle keeps posts whose title contains q, case-insensitively.
// Excerpt and content are deliberately not searched.
func FilterTitle(posts []*models.Post, q string) []*models.Post {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return posts
	}
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterPinned keeps only pinned posts.
func FilterPinned(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Pinned {
			out = append(out, p)
		}
	}
	return out
}

// Paginate slices posts into 1-indexed pages of pageSize. An
// out-of-range page yields empty items, not an error; the input order
// is preserved so pages stay stable across requests.
func Paginate(posts []*models.Post, pageSize, page int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := (len(posts) + pageSize - 1) / pageSize

	if page < 1 || page > totalPages {
		return Page{Items: []*models.Post{}, TotalPages: totalPages}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(posts) {
		end = len(posts)
	}
	return Page{Items: posts[start:end], TotalPages: totalPages}
}

// ListPage returns one page of the listing with the title and pinned
// filters AND-composed before ordering and slicing.
func (s *PostService) ListPage(ctx context.Context, q string, pinnedOnly bool, pageSize, page int) (Page, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return Page{}, err
	}
	posts = FilterTitle(posts, q)
	if pinnedOnly {
		posts = FilterPinned(posts)
	}
	return Paginate(posts, pageSize, page), nil
}
