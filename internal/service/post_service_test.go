package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPostService(db *gorm.DB) *PostService {
	return NewPostService(repository.NewPostRepository(db), func(ctx context.Context, userID uint) (models.Role, error) {
		var user models.User
		if err := db.WithContext(ctx).Select("role").First(&user, userID).Error; err != nil {
			return "", err
		}
		return user.Role, nil
	})
}

func TestPostService_CreatePost_Slugs(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	mk := func() *models.Post {
		post, err := svc.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID,
			Title:    "Hello, World!",
			Content:  "Some body text.",
		})
		require.NoError(t, err)
		return post
	}

	assert.Equal(t, "hello-world", mk().Slug)
	assert.Equal(t, "hello-world-1", mk().Slug, "second identical title takes the -1 suffix")
	assert.Equal(t, "hello-world-2", mk().Slug, "third identical title takes the -2 suffix")
}

func TestPostService_CreatePost_EmptySlugFallback(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	author := testutil.CreateUser(t, db)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: author.ID,
		Title:    "!!!",
		Content:  "punctuation only title",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(post.Slug, "post-"), "title with no slug characters falls back to a random slug, got %q", post.Slug)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"missing title", CreatePostInput{AuthorID: author.ID, Content: "body"}},
		{"blank title", CreatePostInput{AuthorID: author.ID, Title: "   ", Content: "body"}},
		{"missing content", CreatePostInput{AuthorID: author.ID, Title: "Title"}},
		{"title too long", CreatePostInput{AuthorID: author.ID, Title: strings.Repeat("x", 301), Content: "body"}},
		{"too many tags", CreatePostInput{AuthorID: author.ID, Title: "T", Content: "body", Tags: make([]string, 21)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, models.CodeValidation, appErr.Code)
		})
	}
}

func TestPostService_CreatePost_ReadTimeAndTags(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	post, err := svc.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID,
		Title:    "Read time",
		Content:  strings.Repeat("word ", 205),
		Tags:     []string{" Go ", "TESTING", "go", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, post.ReadTime, "205 words at 200 wpm rounds up to 2 minutes")
	assert.Equal(t, models.TagList{"go", "testing"}, post.Tags, "tags are lowercased, trimmed, and deduped")

	exact, err := svc.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID,
		Title:    "Exactly one minute",
		Content:  strings.Repeat("word ", 200),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, exact.ReadTime)
}

func TestPostService_CreatePost_PublishedAt(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	draft, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Title: "Draft", Content: "body"})
	require.NoError(t, err)
	assert.False(t, draft.Published)
	assert.Nil(t, draft.PublishedAt)

	live, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Title: "Live", Content: "body", Published: true})
	require.NoError(t, err)
	assert.True(t, live.Published)
	require.NotNil(t, live.PublishedAt)

	// Authors may feature their own post at create time.
	featured, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Title: "Pinned", Content: "body", Featured: true})
	require.NoError(t, err)
	assert.True(t, featured.Featured)
}

func TestPostService_UpdatePost_PublishTransitions(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Title: "Lifecycle", Content: "body"})
	require.NoError(t, err)

	boolPtr := func(v bool) *bool { return &v }

	// Publish sets the timestamp.
	post, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: author.ID, PostID: post.ID, Published: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	firstPublishedAt := *post.PublishedAt

	// Re-publishing keeps the original date.
	post, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: author.ID, PostID: post.ID, Published: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(firstPublishedAt), "re-publish must not move the publish date")

	// Unpublishing clears it.
	post, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: author.ID, PostID: post.ID, Published: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, post.Published)
	assert.Nil(t, post.PublishedAt)
}

func TestPostService_UpdatePost_RecomputesReadTimeKeepsSlug(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Title: "Stable Slug", Content: "short"})
	require.NoError(t, err)
	originalSlug := post.Slug

	newTitle := "A Completely Different Title"
	newContent := strings.Repeat("word ", 401)
	post, err = svc.UpdatePost(ctx, UpdatePostInput{
		UserID:  author.ID,
		PostID:  post.ID,
		Title:   &newTitle,
		Content: &newContent,
	})
	require.NoError(t, err)
	assert.Equal(t, originalSlug, post.Slug, "slug must not change on title edits")
	assert.Equal(t, 3, post.ReadTime)
	assert.Equal(t, newTitle, post.Title)
}

func TestPostService_UpdatePost_Authorization(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	admin := testutil.CreateUser(t, db, testutil.AsAdmin)
	post := testutil.CreatePost(t, db, owner.ID)

	title := "Edited"
	boolPtr := func(v bool) *bool { return &v }

	_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: other.ID, PostID: post.ID, Title: &title})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: admin.ID, PostID: post.ID, Title: &title})
	assert.NoError(t, err, "admins may edit any post")

	// The owner and admins may both toggle the featured flag; other users
	// are stopped by the ownership check.
	updated, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: owner.ID, PostID: post.ID, Featured: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Featured)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: other.ID, PostID: post.ID, Featured: boolPtr(false)})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)

	updated, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: admin.ID, PostID: post.ID, Featured: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Featured)
}

func TestPostService_DeletePost_Authorization(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	admin := testutil.CreateUser(t, db, testutil.AsAdmin)

	post := testutil.CreatePost(t, db, owner.ID)
	err := svc.DeletePost(ctx, other.ID, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)

	require.NoError(t, svc.DeletePost(ctx, owner.ID, post.ID))

	post = testutil.CreatePost(t, db, owner.ID)
	require.NoError(t, svc.DeletePost(ctx, admin.ID, post.ID), "admins may delete any post")
}

func TestPostService_SearchPosts(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	admin := testutil.CreateUser(t, db, testutil.AsAdmin)

	testutil.CreatePost(t, db, alice.ID, func(p *models.Post) { p.Title = "Published gardening notes" })
	testutil.CreatePost(t, db, alice.ID, func(p *models.Post) {
		p.Title = "Secret gardening draft"
		testutil.AsDraft(p)
	})

	t.Run("empty query short-circuits", func(t *testing.T) {
		page, err := svc.SearchPosts(ctx, SearchPostsInput{Query: "   ", Limit: repository.NoLimit})
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.EqualValues(t, 0, page.Total)
		assert.False(t, page.HasMore)
	})

	t.Run("anonymous sees published only", func(t *testing.T) {
		page, err := svc.SearchPosts(ctx, SearchPostsInput{Query: "gardening", Limit: repository.NoLimit})
		require.NoError(t, err)
		assert.Len(t, page.Posts, 1)
	})

	t.Run("author scope includes own drafts", func(t *testing.T) {
		page, err := svc.SearchPosts(ctx, SearchPostsInput{
			Query: "gardening", AuthorID: alice.ID, ActorID: alice.ID, Limit: repository.NoLimit,
		})
		require.NoError(t, err)
		assert.Len(t, page.Posts, 2)
	})

	t.Run("other users do not see drafts in author scope", func(t *testing.T) {
		page, err := svc.SearchPosts(ctx, SearchPostsInput{
			Query: "gardening", AuthorID: alice.ID, ActorID: bob.ID, Limit: repository.NoLimit,
		})
		require.NoError(t, err)
		assert.Len(t, page.Posts, 1)
	})

	t.Run("admins see drafts in author scope", func(t *testing.T) {
		page, err := svc.SearchPosts(ctx, SearchPostsInput{
			Query: "gardening", AuthorID: alice.ID, ActorID: admin.ID, Limit: repository.NoLimit,
		})
		require.NoError(t, err)
		assert.Len(t, page.Posts, 2)
	})

	t.Run("no matches yields empty page", func(t *testing.T) {
		page, err := svc.SearchPosts(ctx, SearchPostsInput{Query: "zzzzz", Limit: repository.NoLimit})
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.EqualValues(t, 0, page.Total)
		assert.False(t, page.HasMore)
	})
}

func TestPostService_ListPosts_Pagination(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)

	for i := 0; i < 5; i++ {
		testutil.CreatePost(t, db, author.ID)
	}
	published := true

	page, err := svc.ListPosts(ctx, ListPostsInput{Limit: 2, Offset: 0, Published: &published})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	assert.EqualValues(t, 5, page.Total)
	assert.True(t, page.HasMore)

	page, err = svc.ListPosts(ctx, ListPostsInput{Limit: 2, Offset: 4, Published: &published})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)
	assert.False(t, page.HasMore)

	// Offset beyond the total yields an empty page, not an error.
	page, err = svc.ListPosts(ctx, ListPostsInput{Limit: 2, Offset: 50, Published: &published})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)

	// limit=0 returns no items but hasMore still reflects the total.
	page, err = svc.ListPosts(ctx, ListPostsInput{Limit: 0, Offset: 0, Published: &published})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.EqualValues(t, 5, page.Total)
	assert.True(t, page.HasMore)
}

func TestPostService_GetPublishedPost_CountsViews(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, author.ID)

	got, err := svc.GetPublishedPost(ctx, post.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)

	got, err = svc.GetPublishedPost(ctx, post.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Views)
}

func TestPostService_SlugAddressing(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := newPostService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, author.ID, testutil.AsDraft)

	title := "Edited via slug"
	updated, err := svc.UpdatePost(ctx, UpdatePostInput{
		UserID: author.ID, Slug: post.Slug, Title: &title,
	})
	require.NoError(t, err)
	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, title, updated.Title)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: author.ID, Slug: "no-such-slug", Title: &title})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	require.NoError(t, svc.DeletePostBySlug(ctx, author.ID, post.Slug))
	err = svc.DeletePostBySlug(ctx, author.ID, post.Slug)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
