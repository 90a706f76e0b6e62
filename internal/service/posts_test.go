package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/auth"
	"podium/internal/domain"
	"podium/internal/domain/services"
	"podium/internal/federation"
)

func TestPostService_CreatePublic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post, err := f.posts.Create(ctx, fullCaller(f.alice), &services.CreatePostRequest{
		Body:   "Hello <b>#World</b> and @{bob@pod.example}",
		Public: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello #World and @{bob@pod.example}", post.Text)
	assert.Equal(t, []string{"world"}, post.Tags)
	assert.Equal(t, []string{f.bob.ID}, post.MentionedIDs)
	require.NotNil(t, post.Author)
	assert.Equal(t, f.alice.GUID, post.Author.GUID)

	job := f.deferrer.last(t)
	assert.Equal(t, federation.EntityPost, job.EntityType)
	assert.Equal(t, post.GUID, job.EntityGUID)
	assert.Empty(t, job.Recipients)
}

func TestPostService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.Create(context.Background(), fullCaller(f.alice), &services.CreatePostRequest{Body: "  <p></p> ", Public: true})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.deferrer.count())
}

func TestPostService_PrivateRequiresModifyScope(t *testing.T) {
	f := newFixture(t)

	caller := callerFor(f.alice, auth.ScopePublicModify, auth.ScopePrivateRead)
	_, err := f.posts.Create(context.Background(), caller, &services.CreatePostRequest{Body: "secret"})
	assert.ErrorIs(t, err, domain.ErrPrivateScope)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPostService_PrivateAudienceAndMentions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post, err := f.posts.Create(ctx, fullCaller(f.alice), &services.CreatePostRequest{
		Body: "for @{bob@pod.example} and @{carol@pod.example}",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{f.alice.ID, f.bob.ID}, post.Audience)
	// Carol cannot read the post, so she is not mentioned
	assert.Equal(t, []string{f.bob.ID}, post.MentionedIDs)
	assert.Equal(t, []string{f.alice.GUID, f.bob.GUID}, f.deferrer.last(t).Recipients)
}

func TestPostService_PrivateUnknownAspect(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.Create(context.Background(), fullCaller(f.alice), &services.CreatePostRequest{
		Body:      "secret",
		AspectIDs: []int64{9999},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostService_FindHidesInvisiblePosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	private, err := f.posts.Create(ctx, fullCaller(f.alice), &services.CreatePostRequest{Body: "friends only"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  *auth.Caller
		id      string
		wantErr error
	}{
		{name: "author", caller: fullCaller(f.alice), id: private.GUID},
		{name: "audience member", caller: callerFor(f.bob, auth.ScopePublicRead, auth.ScopePrivateRead), id: private.GUID},
		{name: "numeric id", caller: fullCaller(f.bob), id: strconv.FormatInt(private.ID, 10)},
		{name: "audience without private:read", caller: callerFor(f.bob, auth.ScopePublicRead), id: private.GUID, wantErr: domain.ErrPostNotFound},
		{name: "stranger", caller: fullCaller(f.carol), id: private.GUID, wantErr: domain.ErrPostNotFound},
		{name: "missing", caller: fullCaller(f.alice), id: "no-such-guid", wantErr: domain.ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.posts.Find(ctx, tt.caller, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, private.GUID, got.GUID)
		})
	}
}

func TestPostService_Destroy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post, err := f.posts.Create(ctx, fullCaller(f.alice), &services.CreatePostRequest{Body: "bye", Public: true})
	require.NoError(t, err)

	err = f.posts.Destroy(ctx, fullCaller(f.bob), post.GUID)
	assert.ErrorIs(t, err, domain.ErrDeleteNotAllowed)

	require.NoError(t, f.posts.Destroy(ctx, fullCaller(f.alice), post.GUID))
	assert.Equal(t, federation.EntityRetraction, f.deferrer.last(t).EntityType)

	_, err = f.posts.Find(ctx, fullCaller(f.alice), post.GUID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}
