package repository

import (
	"context"
	"fmt"
	"testing"

	"linkup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepositoryCreateReloadsAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "cmt_author")
	post := &models.Post{Text: "target", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	comment := &models.Comment{Text: "first", UserID: author.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, comment))

	assert.Equal(t, author.Username, comment.User.Username)
}

func TestCommentRepositoryListByPostOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "cmt_order")
	post := &models.Post{Text: "target", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Comment{
			Text:   fmt.Sprintf("comment %d", i),
			UserID: author.ID,
			PostID: post.ID,
		}).Error)
	}

	comments, err := repo.ListByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	// Oldest first, reading order.
	for i := 1; i < len(comments); i++ {
		assert.Less(t, comments[i-1].ID, comments[i].ID)
	}

	count, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
