package repository

import (
	"context"
	"testing"
	"time"

	"linkup/internal/cache"
	"linkup/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepositoryGetFeedOrderingAndLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "feed_author")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Three posts at distinct times plus two sharing a timestamp.
	for i, offset := range []time.Duration{0, time.Hour, 2 * time.Hour, 3 * time.Hour, 3 * time.Hour} {
		p := &models.Post{
			Text:      "post",
			UserID:    author.ID,
			CreatedAt: base.Add(offset),
		}
		require.NoError(t, db.Create(p).Error, "post %d", i)
	}

	posts, err := repo.GetFeed(ctx, []uint{author.ID}, 50, author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 5)

	// Newest first; ties break by ascending id.
	for i := 1; i < len(posts); i++ {
		prev, cur := posts[i-1], posts[i]
		if prev.CreatedAt.Equal(cur.CreatedAt) {
			assert.Less(t, prev.ID, cur.ID, "tie at index %d must break by id", i)
		} else {
			assert.True(t, prev.CreatedAt.After(cur.CreatedAt), "index %d out of order", i)
		}
	}

	limited, err := repo.GetFeed(ctx, []uint{author.ID}, 3, author.ID)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestPostRepositoryGetFeedFiltersAuthors(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	in := createTestUser(t, db, "feed_in")
	out := createTestUser(t, db, "feed_out")

	require.NoError(t, db.Create(&models.Post{Text: "visible", UserID: in.ID}).Error)
	require.NoError(t, db.Create(&models.Post{Text: "hidden", UserID: out.ID}).Error)

	posts, err := repo.GetFeed(ctx, []uint{in.ID}, 50, in.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "visible", posts[0].Text)

	empty, err := repo.GetFeed(ctx, nil, 50, in.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostRepositoryGetFeedEmbedsComments(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "emb_author")
	commenter := createTestUser(t, db, "emb_commenter")

	post := &models.Post{Text: "discussed", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	first := &models.Comment{Text: "first", UserID: commenter.ID, PostID: post.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(first).Error)
	second := &models.Comment{Text: "second", UserID: author.ID, PostID: post.ID, CreatedAt: time.Now().Add(time.Minute)}
	require.NoError(t, db.Create(second).Error)

	posts, err := repo.GetFeed(ctx, []uint{author.ID}, 50, author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// Comments ride along oldest first, each with its author resolved.
	comments := posts[0].Comments
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, commenter.Username, comments[0].User.Username)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, author.Username, comments[1].User.Username)
}

func TestPostRepositoryComputedColumns(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "cc_author")
	liker := createTestUser(t, db, "cc_liker")

	post := &models.Post{Text: "counts", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, repo.Like(ctx, liker.ID, post.ID))
	require.NoError(t, db.Create(&models.Comment{Text: "hey", UserID: liker.ID, PostID: post.ID}).Error)

	// From the liker's perspective.
	got, err := repo.GetByID(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.True(t, got.Liked)
	assert.Equal(t, author.Username, got.User.Username)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, liker.Username, got.Comments[0].User.Username)

	// From the author's perspective the post is not liked.
	got, err = repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
}

func TestPostRepositoryGetByIDCaching(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	// Detach the package client again so later tests run uncached.
	t.Cleanup(func() { cache.InitRedis("redis://[detached") })

	author := createTestUser(t, db, "cache_author")
	liker := createTestUser(t, db, "cache_liker")
	post := &models.Post{Text: "cache me", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	require.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err := repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "cache me", got.Text)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)), "read should populate the cache")

	// A like drops the cached record so counts stay fresh.
	require.NoError(t, repo.Like(ctx, liker.ID, post.ID))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	// The cached record is viewer-independent; liked is resolved per viewer.
	got, err = repo.GetByID(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.True(t, got.Liked)

	got, err = repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
}

func TestPostRepositoryCommentCreateInvalidatesPost(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	t.Cleanup(func() { cache.InitRedis("redis://[detached") })

	author := createTestUser(t, db, "cinv_author")
	post := &models.Post{Text: "quiet", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	got, err := postRepo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
	require.True(t, mr.Exists(cache.PostKey(post.ID)))

	require.NoError(t, commentRepo.Create(ctx, &models.Comment{
		Text:   "loud",
		UserID: author.ID,
		PostID: post.ID,
	}))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err = postRepo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "loud", got.Comments[0].Text)
}

func TestPostRepositoryLikeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "like_author")
	post := &models.Post{Text: "likeme", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, repo.Like(ctx, author.ID, post.ID))
	// Second like hits the unique index and is a no-op.
	require.NoError(t, repo.Like(ctx, author.ID, post.ID))

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := repo.IsLiked(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, repo.Unlike(ctx, author.ID, post.ID))
	liked, err = repo.IsLiked(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestPostRepositoryGetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 12345, 0)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepositoryDeleteSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "del_author")
	post := &models.Post{Text: "bye", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID, 0)
	require.Error(t, err)

	// Row still exists under Unscoped (soft delete).
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
