// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/permissions"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parsePublishedFilter reads the published query parameter as a tri-state
// filter: "true" (default), "false", or "all".
func parsePublishedFilter(c *fiber.Ctx) (*bool, bool) {
	switch c.Query("published", "true") {
	case "true":
		v := true
		return &v, true
	case "false":
		v := false
		return &v, true
	case "all":
		return nil, true
	}
	return nil, false
}

// GetPosts handles GET /api/posts. Anyone can browse published posts;
// listing drafts requires an admin token.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c)

	published, ok := parsePublishedFilter(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid published filter"))
	}

	if published == nil || !*published {
		userID, authed := s.optionalUserID(c)
		if !authed {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthRequiredError("Authorization required to list drafts"))
		}
		role, err := s.roleByUserID(c.Context(), userID)
		if err != nil || !permissions.IsAdmin(role) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required to list drafts"))
		}
	}

	authorID := uint(c.QueryInt("authorId", 0))

	result, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:     page.Limit,
		Offset:    page.Offset,
		AuthorID:  authorID,
		Published: published,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// SearchPosts handles GET /api/posts/search
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page := parsePagination(c)
	actorID, _ := s.optionalUserID(c)

	result, err := s.postService.SearchPosts(c.Context(), service.SearchPostsInput{
		Query:    c.Query("q"),
		AuthorID: uint(c.QueryInt("authorId", 0)),
		Limit:    page.Limit,
		Offset:   page.Offset,
		ActorID:  actorID,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// GetPostBySlug handles GET /api/posts/:slug and counts the view.
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid slug"))
	}

	post, err := s.postService.GetPublishedPost(c.Context(), slug)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

// GetMyPosts handles GET /api/posts/my: the author's own posts, drafts
// included, optionally narrowed by publish state or a text query.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c)

	published, ok := parsePublishedFilter(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid published filter"))
	}
	// Default for the owner is everything, not just published posts.
	if c.Query("published") == "" {
		published = nil
	}

	result, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:     page.Limit,
		Offset:    page.Offset,
		AuthorID:  userID,
		Published: published,
		Query:     c.Query("q"),
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

type postBody struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	Tags       *[]string `json:"tags"`
	CoverImage *string   `json:"cover_image"`
	Published  *bool     `json:"published"`
	Featured   *bool     `json:"featured"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req postBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{AuthorID: userID}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Content != nil {
		in.Content = *req.Content
	}
	if req.Excerpt != nil {
		in.Excerpt = *req.Excerpt
	}
	if req.Tags != nil {
		in.Tags = *req.Tags
	}
	if req.CoverImage != nil {
		in.CoverImage = *req.CoverImage
	}
	if req.Published != nil {
		in.Published = *req.Published
	}
	if req.Featured != nil {
		in.Featured = *req.Featured
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:slug. Absent fields are left unchanged.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid slug"))
	}

	var req postBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:     userID,
		Slug:       slug,
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		Featured:   req.Featured,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:slug
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid slug"))
	}

	if err := s.postService.DeletePostBySlug(c.Context(), userID, slug); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
