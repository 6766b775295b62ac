package services

import (
	"context"
	"os"
	"testing"
	"time"

	"go-blog-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "A@x.com", "secret1")

	post, err := env.posts.CreatePost(ctx, ada.ID, validPost(), fakeImage("cover.png", 100_000))
	require.NoError(t, err)

	assert.Equal(t, ada.ID, post.CreatorID)
	assert.Equal(t, models.CategoryArt, post.Category)
	assert.True(t, env.uploads.Exists(post.Thumbnail))
	assert.Equal(t, 1, env.reloadUser(t, ada.ID).Posts)
	assert.Equal(t, []string{TopicPostCreated}, env.events.topics())

	got, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "ada@x.com", "secret1")

	cases := map[string]struct {
		in    PostInput
		thumb bool
		size  int
	}{
		"missing title":     {PostInput{Category: "Art", Description: "twelve chars minimum"}, true, 10},
		"missing category":  {PostInput{Title: "T", Description: "twelve chars minimum"}, true, 10},
		"unknown category":  {PostInput{Title: "T", Category: "Sports", Description: "twelve chars minimum"}, true, 10},
		"missing thumbnail": {validPost(), false, 0},
		"oversize":          {validPost(), true, 2_000_001},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var err error
			if tc.thumb {
				_, err = env.posts.CreatePost(ctx, ada.ID, tc.in, fakeImage("x.png", tc.size))
			} else {
				_, err = env.posts.CreatePost(ctx, ada.ID, tc.in, nil)
			}
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	assert.Equal(t, 0, env.reloadUser(t, ada.ID).Posts)
	entries, err := os.ReadDir(env.uploads.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreatePostUnknownCreatorLeavesNoFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.posts.CreatePost(context.Background(), "ghost", validPost(), fakeImage("x.png", 10))
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	entries, err := os.ReadDir(env.uploads.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	var count int64
	env.store.DB.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetPostNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.posts.GetPost(context.Background(), "missing")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "ada@x.com", "secret1")
	bob := env.register(t, "Bob", "bob@x.com", "secret1")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mk := func(owner, category string, created, updated time.Duration) *models.Post {
		in := validPost()
		in.Category = category
		p, err := env.posts.CreatePost(ctx, owner, in, fakeImage("x.png", 10))
		require.NoError(t, err)
		require.NoError(t, env.store.DB.Model(&models.Post{}).Where("id = ?", p.ID).
			UpdateColumns(map[string]interface{}{
				"created_at": base.Add(created),
				"updated_at": base.Add(updated),
			}).Error)
		return p
	}
	oldArt := mk(ada.ID, "Art", 0, 5*time.Hour)
	newArt := mk(bob.ID, "Art", 2*time.Hour, 2*time.Hour)
	business := mk(ada.ID, "Business", time.Hour, time.Hour)

	all, err := env.posts.ListPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{oldArt.ID, newArt.ID, business.ID}, ids(all))

	art, err := env.posts.ListPostsByCategory(ctx, "Art")
	require.NoError(t, err)
	assert.Equal(t, []string{newArt.ID, oldArt.ID}, ids(art))
	for _, p := range art {
		assert.Equal(t, models.CategoryArt, p.Category)
	}

	weather, err := env.posts.ListPostsByCategory(ctx, "Weather")
	require.NoError(t, err)
	assert.NotNil(t, weather)
	assert.Empty(t, weather)

	adas, err := env.posts.ListPostsByUser(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{business.ID, oldArt.ID}, ids(adas))
}

func ids(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestEditPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "ada@x.com", "secret1")
	post, err := env.posts.CreatePost(ctx, ada.ID, validPost(), fakeImage("a.png", 10))
	require.NoError(t, err)

	// metadata only
	edited, err := env.posts.EditPost(ctx, ada.ID, post.ID, PostInput{
		Title: "New title", Category: "Business", Description: "a longer description",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "New title", edited.Title)
	assert.Equal(t, models.CategoryBusiness, edited.Category)
	assert.Equal(t, post.Thumbnail, edited.Thumbnail)
	assert.True(t, env.uploads.Exists(post.Thumbnail))

	// with a new thumbnail the old file goes away
	edited, err = env.posts.EditPost(ctx, ada.ID, post.ID, validPost(), fakeImage("b.jpg", 10))
	require.NoError(t, err)
	assert.NotEqual(t, post.Thumbnail, edited.Thumbnail)
	assert.True(t, env.uploads.Exists(edited.Thumbnail))
	assert.False(t, env.uploads.Exists(post.Thumbnail))
	assert.Equal(t, 1, env.reloadUser(t, ada.ID).Posts)
}

func TestEditPostValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "ada@x.com", "secret1")
	post, err := env.posts.CreatePost(ctx, ada.ID, validPost(), fakeImage("a.png", 10))
	require.NoError(t, err)

	for name, in := range map[string]PostInput{
		"short description": {Title: "T", Category: "Art", Description: "too short"},
		"missing title":     {Category: "Art", Description: "twelve chars minimum"},
		"bad category":      {Title: "T", Category: "Sports", Description: "twelve chars minimum"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.posts.EditPost(ctx, ada.ID, post.ID, in, nil)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	_, err = env.posts.EditPost(ctx, ada.ID, post.ID, validPost(), fakeImage("big.png", 2_000_001))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, env.uploads.Exists(post.Thumbnail))

	_, err = env.posts.EditPost(ctx, ada.ID, "missing", validPost(), nil)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestNonCreatorCannotMutate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "ada@x.com", "secret1")
	bob := env.register(t, "Bob", "bob@x.com", "secret1")
	post, err := env.posts.CreatePost(ctx, ada.ID, validPost(), fakeImage("a.png", 10))
	require.NoError(t, err)

	_, err = env.posts.EditPost(ctx, bob.ID, post.ID, PostInput{
		Title: "Hijacked", Category: "Art", Description: "a longer description",
	}, fakeImage("evil.png", 10))
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	err = env.posts.DeletePost(ctx, bob.ID, post.ID)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	got, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Thumbnail, got.Thumbnail)
	assert.True(t, env.uploads.Exists(post.Thumbnail))
	assert.Equal(t, 1, env.reloadUser(t, ada.ID).Posts)

	entries, err := os.ReadDir(env.uploads.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "ada@x.com", "secret1")
	keep, err := env.posts.CreatePost(ctx, ada.ID, validPost(), fakeImage("a.png", 10))
	require.NoError(t, err)
	doomed, err := env.posts.CreatePost(ctx, ada.ID, validPost(), fakeImage("b.png", 10))
	require.NoError(t, err)
	require.Equal(t, 2, env.reloadUser(t, ada.ID).Posts)

	require.NoError(t, env.posts.DeletePost(ctx, ada.ID, doomed.ID))

	_, err = env.posts.GetPost(ctx, doomed.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.False(t, env.uploads.Exists(doomed.Thumbnail))
	assert.True(t, env.uploads.Exists(keep.Thumbnail))
	assert.Equal(t, 1, env.reloadUser(t, ada.ID).Posts)
	assert.Contains(t, env.events.topics(), TopicPostDeleted)

	// second delete of the same post
	err = env.posts.DeletePost(ctx, ada.ID, doomed.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 1, env.reloadUser(t, ada.ID).Posts)

	err = env.posts.DeletePost(ctx, ada.ID, "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestDeletePostWithMissingThumbnail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "Ada", "ada@x.com", "secret1")
	post, err := env.posts.CreatePost(ctx, ada.ID, validPost(), fakeImage("a.png", 10))
	require.NoError(t, err)

	require.NoError(t, os.Remove(env.uploads.Path(post.Thumbnail)))

	require.NoError(t, env.posts.DeletePost(ctx, ada.ID, post.ID))
	_, err = env.posts.GetPost(ctx, post.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 0, env.reloadUser(t, ada.ID).Posts)
}
