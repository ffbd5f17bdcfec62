// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"encoding/json"
	"strconv"

	"penlight/internal/middleware"
	"penlight/internal/models"
	"penlight/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondDegraded answers a collection read whose store went away with a
// 503 that still carries an empty posts array, so list consumers keep a
// well-formed body to render.
func respondDegraded(c *fiber.Ctx, err error) error {
	middleware.Logger.ErrorContext(c.UserContext(), "store unavailable", "error", err)
	appErr := models.NewStoreUnavailableError(err)
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": appErr.Message,
		"posts": []*models.Post{},
	})
}

// GetPosts handles GET /api/posts. Without query parameters it returns
// the full ordered list; with q/pinned/page/pageSize it returns a paged
// envelope filtered in memory.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()

	q := c.Query("q")
	pinnedOnly := c.Query("pinned") == "true"
	pageParam := c.Query("page")
	sizeParam := c.Query("pageSize")

	if q == "" && !pinnedOnly && pageParam == "" && sizeParam == "" {
		posts, err := s.postService.List(ctx)
		if err != nil {
			return respondDegraded(c, err)
		}
		return c.JSON(posts)
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(sizeParam)
	if err != nil || pageSize < 1 {
		pageSize = service.DefaultPageSize
	}

	result, err := s.postService.ListPage(ctx, q, pinnedOnly, pageSize, page)
	if err != nil {
		return respondDegraded(c, err)
	}
	return c.JSON(result)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	ctx := c.Context()

	results, err := s.postService.Search(ctx, c.Query("q"))
	if err != nil {
		return respondDegraded(c, err)
	}
	return c.JSON(results)
}

// GetPost handles GET /api/posts/:slugOrId
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()

	post, err := s.postService.Get(ctx, c.Params("slugOrId"))
	if err != nil {
		if models.IsCode(err, "NOT_FOUND") {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(post)
}

// GetRelatedPosts handles GET /api/posts/:slugOrId/related
func (s *Server) GetRelatedPosts(c *fiber.Ctx) error {
	ctx := c.Context()

	related, err := s.postService.Related(ctx, c.Params("slugOrId"), service.RelatedLimit)
	if err != nil {
		if models.IsCode(err, "NOT_FOUND") {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return respondDegraded(c, err)
	}
	return c.JSON(related)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Title           string   `json:"title"`
		Slug            string   `json:"slug"`
		Excerpt         string   `json:"excerpt"`
		Content         string   `json:"content"`
		Thumbnail       *string  `json:"thumbnail"`
		Topic           any      `json:"topic"`
		Pinned          bool     `json:"pinned"`
		FontSize        string   `json:"fontSize"`
		RelatedArticles []string `json:"relatedArticles"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(ctx, service.CreatePostInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		Thumbnail:       req.Thumbnail,
		Topic:           req.Topic,
		Pinned:          req.Pinned,
		FontSize:        req.FontSize,
		RelatedArticles: req.RelatedArticles,
	})
	if err != nil {
		if models.IsCode(err, "VALIDATION_ERROR") || models.IsCode(err, "DUPLICATE_SLUG") {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. The payload is partial: fields
// absent from the body keep their prior values, while explicit nulls
// clear thumbnail, topic and relatedArticles.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	id := c.Params("id")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in, err := buildUpdateInput(raw)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	post, err := s.postService.Update(ctx, id, in)
	if err != nil {
		switch {
		case models.IsCode(err, "NOT_FOUND"):
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		case models.IsCode(err, "DUPLICATE_SLUG"):
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()

	if err := s.postService.Delete(ctx, c.Params("id")); err != nil {
		if models.IsCode(err, "NOT_FOUND") {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
