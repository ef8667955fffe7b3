// Package service implements the business rules of the application on top of
// the repository layer.
package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/permissions"
	"inkwell/internal/repository"
	"inkwell/internal/slug"
)

const (
	maxTitleLen   = 300
	maxContentLen = 100000
	maxExcerptLen = 500
	maxTags       = 20

	// wordsPerMinute drives the estimated read time shown on posts.
	wordsPerMinute = 200

	// maxSlugAttempts bounds the suffix walk before falling back to a
	// random slug.
	maxSlugAttempts = 50
)

type PostService struct {
	postRepo repository.PostRepository
	getRole  func(ctx context.Context, userID uint) (models.Role, error)
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Content    string
	Excerpt    string
	Tags       []string
	CoverImage string
	Published  bool
	Featured   bool
}

// UpdatePostInput addresses the post by Slug when set (author-facing routes),
// otherwise by PostID (admin moderation).
type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Slug       string
	Title      *string
	Content    *string
	Excerpt    *string
	Tags       *[]string
	CoverImage *string
	Published  *bool
	Featured   *bool
}

type ListPostsInput struct {
	Limit  int
	Offset int

	// AuthorID narrows the listing to one author's posts.
	AuthorID uint
	// Published filters by publish state; nil lists drafts and published
	// posts alike. Callers must have already verified the actor may see
	// unpublished posts.
	Published *bool
	// Query optionally narrows the listing with a text match.
	Query string
}

type SearchPostsInput struct {
	Query    string
	AuthorID uint
	Limit    int
	Offset   int
	// ActorID is the requesting user (0 for anonymous).
	ActorID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	getRole func(ctx context.Context, userID uint) (models.Role, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		getRole:  getRole,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long")
	}
	if len(in.Excerpt) > maxExcerptLen {
		return nil, models.NewValidationError("Excerpt too long (max 500 characters)")
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		Tags:       tags,
		CoverImage: in.CoverImage,
		Published:  in.Published,
		Featured:   in.Featured,
		ReadTime:   estimateReadTime(in.Content),
		AuthorID:   in.AuthorID,
	}
	if in.Published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.createWithUniqueSlug(ctx, post); err != nil {
		return nil, err
	}

	middleware.PostsCreated.Inc()
	return s.postRepo.GetByID(ctx, post.ID)
}

// createWithUniqueSlug assigns a slug derived from the title and inserts the
// post, advancing through -1, -2, ... suffixes until the unique constraint
// accepts one. The constraint, not the existence pre-check, is what settles
// concurrent creates with the same title.
func (s *PostService) createWithUniqueSlug(ctx context.Context, post *models.Post) error {
	base := slug.Make(post.Title)
	if base == "" {
		base = slug.Fallback()
	}

	candidate := base
	for n := 1; n <= maxSlugAttempts; n++ {
		exists, err := s.postRepo.SlugExists(ctx, candidate)
		if err != nil {
			return err
		}
		if !exists {
			post.Slug = candidate
			err := s.postRepo.Create(ctx, post)
			if err == nil {
				return nil
			}
			if !errors.Is(err, models.ErrSlugTaken) {
				return err
			}
			// Lost the race to a concurrent insert, keep walking.
		}
		middleware.SlugCollisions.Inc()
		candidate = slug.WithSuffix(base, n)
	}

	// Exhausted the suffix walk; a random slug cannot reasonably collide.
	post.Slug = slug.Fallback()
	return s.postRepo.Create(ctx, post)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*models.PostPage, error) {
	filter := repository.PostFilter{
		AuthorID:  in.AuthorID,
		Published: in.Published,
		Query:     strings.TrimSpace(in.Query),
		Limit:     in.Limit,
		Offset:    in.Offset,
	}

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return buildPostPage(posts, total, in.Offset), nil
}

// SearchPosts matches the query against titles, content, excerpts, and tags.
// Anonymous and cross-author searches see published posts only; an author
// searching their own posts (or an admin) sees drafts too.
func (s *PostService) SearchPosts(ctx context.Context, in SearchPostsInput) (*models.PostPage, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		middleware.PostSearches.WithLabelValues("empty").Inc()
		return models.EmptyPostPage(), nil
	}

	filter := repository.PostFilter{
		Query:    query,
		AuthorID: in.AuthorID,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}

	published := true
	filter.Published = &published
	if in.AuthorID != 0 && in.ActorID != 0 {
		if in.ActorID == in.AuthorID {
			filter.Published = nil
		} else if role, err := s.getRole(ctx, in.ActorID); err == nil && permissions.IsAdmin(role) {
			filter.Published = nil
		}
	}

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		middleware.PostSearches.WithLabelValues("error").Inc()
		return nil, err
	}
	middleware.PostSearches.WithLabelValues("ok").Inc()
	return buildPostPage(posts, total, in.Offset), nil
}

// GetPublishedPost returns a published post by slug and counts the view.
func (s *PostService) GetPublishedPost(ctx context.Context, slugVal string) (*models.Post, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, slugVal)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		return nil, err
	}
	post.Views++
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	var post *models.Post
	var err error
	if in.Slug != "" {
		post, err = s.postRepo.GetBySlug(ctx, in.Slug)
	} else {
		post, err = s.postRepo.GetByID(ctx, in.PostID)
	}
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.actorIsAdmin(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID && !isAdmin {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		// The slug stays stable so published URLs never break.
		post.Title = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content is required")
		}
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long")
		}
		post.Content = *in.Content
		post.ReadTime = estimateReadTime(*in.Content)
	}
	if in.Excerpt != nil {
		if len(*in.Excerpt) > maxExcerptLen {
			return nil, models.NewValidationError("Excerpt too long (max 500 characters)")
		}
		post.Excerpt = *in.Excerpt
	}
	if in.Tags != nil {
		tags, err := normalizeTags(*in.Tags)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}
	if in.CoverImage != nil {
		post.CoverImage = *in.CoverImage
	}
	if in.Featured != nil {
		post.Featured = *in.Featured
	}
	if in.Published != nil {
		switch {
		case *in.Published && !post.Published:
			now := time.Now().UTC()
			post.Published = true
			post.PublishedAt = &now
		case !*in.Published && post.Published:
			post.Published = false
			post.PublishedAt = nil
		}
		// Re-publishing an already published post keeps its original date.
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	return s.deletePost(ctx, userID, post)
}

// DeletePostBySlug removes a post addressed by its slug (author-facing route).
func (s *PostService) DeletePostBySlug(ctx context.Context, userID uint, slugVal string) error {
	post, err := s.postRepo.GetBySlug(ctx, slugVal)
	if err != nil {
		return err
	}
	return s.deletePost(ctx, userID, post)
}

func (s *PostService) deletePost(ctx context.Context, userID uint, post *models.Post) error {
	if post.AuthorID != userID {
		isAdmin, err := s.actorIsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}
	return s.postRepo.Delete(ctx, post.ID)
}

func (s *PostService) actorIsAdmin(ctx context.Context, userID uint) (bool, error) {
	if s.getRole == nil {
		return false, nil
	}
	role, err := s.getRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return permissions.IsAdmin(role), nil
}

func buildPostPage(posts []*models.Post, total int64, offset int) *models.PostPage {
	if posts == nil {
		posts = []*models.Post{}
	}
	return &models.PostPage{
		Posts:   posts,
		Total:   total,
		HasMore: int64(offset+len(posts)) < total,
	}
}

// estimateReadTime returns minutes at a fixed reading pace, rounded up.
func estimateReadTime(content string) int {
	words := len(strings.Fields(content))
	return int(math.Ceil(float64(words) / float64(wordsPerMinute)))
}

// normalizeTags lowercases, trims, and dedupes tags.
func normalizeTags(tags []string) (models.TagList, error) {
	if len(tags) > maxTags {
		return nil, models.NewValidationError("Too many tags (max 20)")
	}
	out := make(models.TagList, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
