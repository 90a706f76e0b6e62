package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/federation"
	"podium/internal/locale"
	"podium/internal/middleware"
	"podium/internal/paging"
	"podium/internal/presenter"
	"podium/internal/repository/memory"
	"podium/internal/service"
)

const testSecret = "handler-test-secret"

// testAPI runs the full router against the in-memory store. alice has bob
// in her "Friends" aspect; carol knows nobody.
type testAPI struct {
	t       *testing.T
	server  *httptest.Server
	repos   *repositories.Repositories
	issuer  *auth.Issuer
	catalog *locale.Catalog

	alice, bob, carol *models.Person
	friends           *models.Aspect
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	logger := slogt.New(t)

	catalog, err := locale.Load()
	require.NoError(t, err)

	repos := memory.NewRepositories(memory.NewStore())
	api := &testAPI{
		t:       t,
		repos:   repos,
		issuer:  auth.NewIssuer(testSecret, time.Hour),
		catalog: catalog,
	}

	person := func(handle, name string) *models.Person {
		p := &models.Person{DiasporaHandle: handle, Name: name, Local: true}
		require.NoError(t, repos.People.Create(ctx, p))
		return p
	}
	api.alice = person("alice@pod.example", "Alice")
	api.bob = person("bob@pod.example", "Bob")
	api.carol = person("carol@pod.example", "Carol")

	api.friends = &models.Aspect{OwnerID: api.alice.ID, Name: "Friends"}
	require.NoError(t, repos.Aspects.Create(ctx, api.friends))
	require.NoError(t, repos.Aspects.AddMember(ctx, api.friends.ID, api.bob.ID))

	deferrer := federation.NewDeferrer(federation.NewLogDispatcher(logger), time.Second, logger)
	svc := Services{
		Posts:         service.NewPostService(repos.Posts, repos.People, repos.Aspects, deferrer, logger),
		Reshares:      service.NewReshareService(repos.Posts, repos.People, deferrer, logger),
		Comments:      service.NewCommentService(repos.Posts, repos.People, repos.Comments, repos.Reports, deferrer, logger),
		Likes:         service.NewLikeService(repos.Posts, repos.People, repos.Likes, deferrer, logger),
		Conversations: service.NewConversationService(repos.Conversations, repos.People, repos.Aspects, deferrer, logger),
		Aspects:       service.NewAspectService(repos.Aspects, repos.TxManager, logger),
		Streams:       service.NewStreamService(repos.Posts, repos.People, repos.Aspects, repos.Tags, logger),
	}

	verifier, err := auth.NewHMACVerifier(testSecret, logger)
	require.NoError(t, err)
	gate := middleware.NewGate(auth.NewAuthenticator(verifier, repos.Tokens, repos.People, logger), catalog, logger)

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandlers(svc, nil, catalog, logger), gate)

	api.server = httptest.NewServer(middleware.Chain(mux,
		middleware.Recovery(logger, catalog),
		middleware.RequestLogger(logger),
	))
	t.Cleanup(deferrer.Wait)
	t.Cleanup(api.server.Close)
	return api
}

// token mints an access token for p.
func (a *testAPI) token(p *models.Person, scopes ...auth.Scope) string {
	a.t.Helper()
	raw, _, err := a.issuer.Issue(p.GUID, auth.NewScopeSet(scopes...))
	require.NoError(a.t, err)
	return raw
}

func (a *testAPI) fullToken(p *models.Person) string {
	a.t.Helper()
	raw, _, err := a.issuer.Issue(p.GUID, auth.AllScopes())
	require.NoError(a.t, err)
	return raw
}

type response struct {
	status int
	header http.Header
	body   string
}

func (r response) decode(t *testing.T, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(r.body), dest), r.body)
}

func (a *testAPI) do(method, path, token string, body any, headers ...string) response {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: string(raw)}
}

// msg is the English text of a message key.
func (a *testAPI) msg(key string) string {
	return a.catalog.Message("en", key)
}

func (a *testAPI) createPost(token string, req map[string]any) presenter.PostResponse {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/v1/posts", token, req)
	require.Equal(a.t, http.StatusCreated, resp.status, resp.body)
	var post presenter.PostResponse
	resp.decode(a.t, &post)
	return post
}

func (a *testAPI) publicPost(author *models.Person, text string) presenter.PostResponse {
	return a.createPost(a.fullToken(author), map[string]any{"body": text, "public": true})
}

func (a *testAPI) friendsPost(text string) presenter.PostResponse {
	return a.createPost(a.fullToken(a.alice), map[string]any{
		"body":       text,
		"public":     false,
		"aspect_ids": []int64{a.friends.ID},
	})
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, `"status":"ok"`)
}

func TestAccessGate(t *testing.T) {
	api := newTestAPI(t)

	t.Run("no token is 401", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/conversations", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.unauthenticated"), resp.body)
		assert.True(t, strings.HasPrefix(resp.header.Get("Content-Type"), "text/plain"))
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/conversations", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	t.Run("token signed with another secret is 401", func(t *testing.T) {
		raw, _, err := auth.NewIssuer("other-secret", time.Hour).Issue(api.alice.GUID, auth.AllScopes())
		require.NoError(t, err)
		resp := api.do(http.MethodGet, "/api/v1/conversations", raw, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	t.Run("public read token on conversations is 403", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/conversations", api.token(api.alice, auth.ScopePublicRead), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.forbidden"), resp.body)
	})

	t.Run("comments need interactions as well", func(t *testing.T) {
		post := api.publicPost(api.alice, "hello")
		resp := api.do(http.MethodGet, "/api/v1/posts/"+post.GUID+"/comments", api.token(api.bob, auth.ScopePublicRead), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
	})

	t.Run("comment writes need public read", func(t *testing.T) {
		post := api.publicPost(api.alice, "write only")
		path := "/api/v1/posts/" + post.GUID + "/comments"
		writeOnly := api.token(api.bob, auth.ScopeInteractions, auth.ScopePublicModify)

		resp := api.do(http.MethodPost, path, writeOnly, map[string]string{"body": "hi"})
		assert.Equal(t, http.StatusForbidden, resp.status)

		resp = api.do(http.MethodPost, path, api.fullToken(api.bob), map[string]string{"body": "hi"})
		require.Equal(t, http.StatusCreated, resp.status, resp.body)
		var c presenter.CommentResponse
		resp.decode(t, &c)

		resp = api.do(http.MethodDelete, path+"/"+c.GUID, writeOnly, nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
	})

	t.Run("revoked token is 401", func(t *testing.T) {
		raw, cred, err := api.issuer.Issue(api.alice.GUID, auth.AllScopes())
		require.NoError(t, err)
		require.NoError(t, api.repos.Tokens.Revoke(context.Background(), cred.TokenID, cred.ExpiresAt))

		resp := api.do(http.MethodGet, "/api/v1/conversations", raw, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	t.Run("token as query parameter", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/conversations?access_token="+api.fullToken(api.alice), "", nil)
		assert.Equal(t, http.StatusOK, resp.status)
	})

	t.Run("rejections are localized", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/conversations", "", nil, "Accept-Language", "de-DE")
		assert.Equal(t, api.catalog.Message("de", "api.endpoint_errors.unauthenticated"), resp.body)
	})
}

func TestPosts_InvisibleIsNotFound(t *testing.T) {
	api := newTestAPI(t)
	post := api.friendsPost("for friends only")

	missing := api.do(http.MethodGet, "/api/v1/posts/no-such-guid", api.fullToken(api.carol), nil)
	hidden := api.do(http.MethodGet, "/api/v1/posts/"+post.GUID, api.fullToken(api.carol), nil)

	assert.Equal(t, http.StatusNotFound, hidden.status)
	assert.Equal(t, missing.status, hidden.status)
	assert.Equal(t, missing.body, hidden.body)
	assert.Equal(t, api.msg("api.endpoint_errors.posts.post_not_found"), hidden.body)

	t.Run("audience member without private read", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/posts/"+post.GUID, api.token(api.bob, auth.ScopePublicRead), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
	})

	t.Run("audience member with private read", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/posts/"+post.GUID,
			api.token(api.bob, auth.ScopePublicRead, auth.ScopePrivateRead), nil)
		require.Equal(t, http.StatusOK, resp.status)
		var got presenter.PostResponse
		resp.decode(t, &got)
		assert.Equal(t, post.GUID, got.GUID)
		assert.False(t, got.Public)
	})

	t.Run("interactions on invisible posts are not found", func(t *testing.T) {
		resp := api.do(http.MethodPost, "/api/v1/posts/"+post.GUID+"/likes", api.fullToken(api.carol), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.posts.post_not_found"), resp.body)
	})
}

func TestPosts_CreateAndDelete(t *testing.T) {
	api := newTestAPI(t)

	t.Run("private post needs private modify", func(t *testing.T) {
		resp := api.do(http.MethodPost, "/api/v1/posts", api.token(api.alice, auth.ScopePublicModify),
			map[string]any{"body": "secret", "public": false})
		assert.Equal(t, http.StatusForbidden, resp.status)
	})

	t.Run("empty body fails", func(t *testing.T) {
		resp := api.do(http.MethodPost, "/api/v1/posts", api.fullToken(api.alice), map[string]any{"public": true})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.posts.failed_create"), resp.body)
	})

	post := api.publicPost(api.alice, "hello #world")

	t.Run("only the author deletes", func(t *testing.T) {
		resp := api.do(http.MethodDelete, "/api/v1/posts/"+post.GUID, api.fullToken(api.bob), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.posts.failed_delete"), resp.body)

		resp = api.do(http.MethodDelete, "/api/v1/posts/"+post.GUID, api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusNoContent, resp.status)

		resp = api.do(http.MethodGet, "/api/v1/posts/"+post.GUID, api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
	})
}

func TestLikes(t *testing.T) {
	api := newTestAPI(t)
	post := api.publicPost(api.alice, "like me")
	bob := api.fullToken(api.bob)
	path := "/api/v1/posts/" + post.GUID + "/likes"

	resp := api.do(http.MethodPost, path, bob, nil)
	require.Equal(t, http.StatusNoContent, resp.status, resp.body)

	resp = api.do(http.MethodPost, path, bob, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Equal(t, api.msg("api.endpoint_errors.likes.like_exists"), resp.body)

	var likes paging.Page[presenter.LikeResponse]
	api.do(http.MethodGet, path, bob, nil).decode(t, &likes)
	require.Len(t, likes.Data, 1)
	assert.Equal(t, api.bob.GUID, likes.Data[0].Author.GUID)

	var shown presenter.PostResponse
	api.do(http.MethodGet, "/api/v1/posts/"+post.GUID, bob, nil).decode(t, &shown)
	assert.Equal(t, 1, shown.InteractionCounters.Likes)

	resp = api.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNoContent, resp.status)

	resp = api.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, api.msg("api.endpoint_errors.likes.no_like"), resp.body)
}

func TestLikes_IndexPager(t *testing.T) {
	api := newTestAPI(t)
	post := api.publicPost(api.alice, "popular")
	path := "/api/v1/posts/" + post.GUID + "/likes"

	for _, p := range []*models.Person{api.alice, api.bob, api.carol} {
		require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, path, api.fullToken(p), nil).status)
	}

	var page paging.Page[presenter.LikeResponse]
	api.do(http.MethodGet, path+"?per_page=2", api.fullToken(api.alice), nil).decode(t, &page)
	require.Len(t, page.Data, 2)
	require.NotNil(t, page.Links)
	assert.Contains(t, page.Links.Next, "page=2")
	assert.Empty(t, page.Links.Previous)

	for _, q := range []string{"?page=0", "?page=4611686018427387904"} {
		resp := api.do(http.MethodGet, path+q, api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status, q)
		assert.Equal(t, api.msg("api.endpoint_errors.invalid_pagination"), resp.body, q)
	}
}

func TestComments(t *testing.T) {
	api := newTestAPI(t)
	post := api.publicPost(api.alice, "discuss")
	path := "/api/v1/posts/" + post.GUID + "/comments"

	var created []presenter.CommentResponse
	for _, text := range []string{"first", "second", "third"} {
		resp := api.do(http.MethodPost, path, api.fullToken(api.bob), map[string]string{"body": text})
		require.Equal(t, http.StatusCreated, resp.status, resp.body)
		var c presenter.CommentResponse
		resp.decode(t, &c)
		created = append(created, c)
	}

	t.Run("default page starts at the epoch floor", func(t *testing.T) {
		var page paging.Page[presenter.CommentResponse]
		api.do(http.MethodGet, path, api.fullToken(api.alice), nil).decode(t, &page)

		require.Len(t, page.Data, 3)
		assert.Equal(t, "first", page.Data[0].Body)
		assert.Equal(t, "third", page.Data[2].Body)
		require.NotNil(t, page.Links)
		assert.Contains(t, page.Links.Previous, "before=")
		assert.Empty(t, page.Links.Next)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		resp := api.do(http.MethodGet, path+"?after=yesterday", api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.invalid_pagination"), resp.body)
	})

	t.Run("empty comment", func(t *testing.T) {
		resp := api.do(http.MethodPost, path, api.fullToken(api.bob), map[string]string{"body": " "})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.comments.not_allowed"), resp.body)
	})

	t.Run("strangers cannot delete", func(t *testing.T) {
		resp := api.do(http.MethodDelete, path+"/"+created[0].GUID, api.fullToken(api.carol), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.comments.no_delete"), resp.body)
	})

	t.Run("post author deletes", func(t *testing.T) {
		resp := api.do(http.MethodDelete, path+"/"+created[0].GUID, api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusNoContent, resp.status)

		resp = api.do(http.MethodDelete, path+"/"+created[0].GUID, api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.comments.not_found"), resp.body)
	})
}

func TestReports(t *testing.T) {
	api := newTestAPI(t)
	post := api.publicPost(api.alice, "reportable")
	other := api.publicPost(api.alice, "other")

	resp := api.do(http.MethodPost, "/api/v1/posts/"+post.GUID+"/comments", api.fullToken(api.bob),
		map[string]string{"body": "spam"})
	require.Equal(t, http.StatusCreated, resp.status)
	var comment presenter.CommentResponse
	resp.decode(t, &comment)

	path := "/api/v1/posts/" + post.GUID + "/comments/" + comment.GUID + "/report"
	carol := api.fullToken(api.carol)

	resp = api.do(http.MethodPost, path, carol, map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Equal(t, api.msg("api.endpoint_errors.comments.no_reason"), resp.body)

	resp = api.do(http.MethodPost, path, carol, map[string]string{"reason": "spam"})
	assert.Equal(t, http.StatusNoContent, resp.status)

	resp = api.do(http.MethodPost, path, carol, map[string]string{"reason": "still spam"})
	assert.Equal(t, http.StatusConflict, resp.status)
	assert.Equal(t, api.msg("api.endpoint_errors.comments.duplicate_report"), resp.body)

	resp = api.do(http.MethodPost, "/api/v1/posts/"+other.GUID+"/comments/"+comment.GUID+"/report", carol,
		map[string]string{"reason": "spam"})
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, api.msg("api.endpoint_errors.comments.not_found"), resp.body)
}

func TestReshares(t *testing.T) {
	api := newTestAPI(t)
	post := api.publicPost(api.alice, "share this")
	path := "/api/v1/posts/" + post.GUID + "/reshares"

	resp := api.do(http.MethodPost, path, api.fullToken(api.alice), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Equal(t, api.msg("reshares.create.error"), resp.body)

	resp = api.do(http.MethodPost, path, api.fullToken(api.bob), nil)
	require.Equal(t, http.StatusOK, resp.status, resp.body)
	var reshare presenter.PostResponse
	resp.decode(t, &reshare)
	assert.Equal(t, models.PostTypeReshare, reshare.PostType)
	require.NotNil(t, reshare.Root)
	assert.Equal(t, post.GUID, reshare.Root.GUID)

	resp = api.do(http.MethodPost, path, api.fullToken(api.bob), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)

	resp = api.do(http.MethodPost, "/api/v1/posts/missing/reshares", api.fullToken(api.bob), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Equal(t, api.msg("reshares.create.error"), resp.body)

	var page paging.Page[presenter.ReshareResponse]
	api.do(http.MethodGet, path, api.fullToken(api.carol), nil).decode(t, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, reshare.GUID, page.Data[0].GUID)
}

func TestConversations(t *testing.T) {
	api := newTestAPI(t)
	alice := api.fullToken(api.alice)
	bob := api.fullToken(api.bob)

	resp := api.do(http.MethodPost, "/api/v1/conversations", alice, map[string]any{
		"subject":    "Dinner",
		"body":       "Friday?",
		"recipients": []string{api.bob.GUID},
	})
	require.Equal(t, http.StatusCreated, resp.status, resp.body)
	var conv presenter.ConversationResponse
	resp.decode(t, &conv)
	assert.Len(t, conv.Participants, 2)

	t.Run("strangers are rejected", func(t *testing.T) {
		resp := api.do(http.MethodPost, "/api/v1/conversations", alice, map[string]any{
			"subject":    "Hi",
			"body":       "Hello",
			"recipients": []string{api.carol.DiasporaHandle},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.conversations.cant_process"), resp.body)
	})

	t.Run("recipient sees it unread", func(t *testing.T) {
		var page paging.Page[presenter.ConversationResponse]
		api.do(http.MethodGet, "/api/v1/conversations?only_unread=true", bob, nil).decode(t, &page)
		require.Len(t, page.Data, 1)
		assert.Equal(t, conv.GUID, page.Data[0].GUID)
		assert.False(t, page.Data[0].Read)
	})

	t.Run("author has nothing unread", func(t *testing.T) {
		var page paging.Page[presenter.ConversationResponse]
		api.do(http.MethodGet, "/api/v1/conversations?only_unread=true", alice, nil).decode(t, &page)
		assert.Empty(t, page.Data)
	})

	t.Run("bad filter", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/conversations?only_after=soon", alice, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	})

	t.Run("non participants get not found", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/conversations/"+conv.GUID, api.fullToken(api.carol), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.conversations.not_found"), resp.body)
	})

	t.Run("hide", func(t *testing.T) {
		resp := api.do(http.MethodDelete, "/api/v1/conversations/"+conv.GUID, bob, nil)
		assert.Equal(t, http.StatusNoContent, resp.status)

		resp = api.do(http.MethodGet, "/api/v1/conversations/"+conv.GUID, bob, nil)
		assert.Equal(t, http.StatusNotFound, resp.status)

		resp = api.do(http.MethodGet, "/api/v1/conversations/"+conv.GUID, alice, nil)
		assert.Equal(t, http.StatusOK, resp.status)
	})
}

func TestAspects(t *testing.T) {
	api := newTestAPI(t)
	alice := api.fullToken(api.alice)

	t.Run("create needs chat_enabled", func(t *testing.T) {
		resp := api.do(http.MethodPost, "/api/v1/aspects", alice, map[string]any{"name": "Work"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.aspects.cant_create"), resp.body)
	})

	resp := api.do(http.MethodPost, "/api/v1/aspects", alice, map[string]any{"name": "Work", "chat_enabled": true})
	require.Equal(t, http.StatusOK, resp.status, resp.body)
	var work presenter.AspectResponse
	resp.decode(t, &work)
	assert.Equal(t, 1, work.Order)
	assert.True(t, work.ChatEnabled)

	t.Run("list in order", func(t *testing.T) {
		var list struct {
			Data []presenter.AspectSummary `json:"data"`
		}
		api.do(http.MethodGet, "/api/v1/aspects", alice, nil).decode(t, &list)
		require.Len(t, list.Data, 2)
		assert.Equal(t, "Friends", list.Data[0].Name)
		assert.Equal(t, "Work", list.Data[1].Name)
	})

	t.Run("move to front", func(t *testing.T) {
		resp := api.do(http.MethodPatch, "/api/v1/aspects/"+jsonID(work.ID), alice, map[string]any{"order": 0})
		require.Equal(t, http.StatusOK, resp.status, resp.body)
		var moved presenter.AspectResponse
		resp.decode(t, &moved)
		assert.Equal(t, 0, moved.Order)
	})

	t.Run("null name", func(t *testing.T) {
		resp := api.do(http.MethodPatch, "/api/v1/aspects/"+jsonID(work.ID), alice, map[string]any{"name": nil})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.aspects.cant_update"), resp.body)
	})

	t.Run("update missing aspect", func(t *testing.T) {
		resp := api.do(http.MethodPatch, "/api/v1/aspects/999", alice, map[string]any{"name": "Other"})
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.aspects.cant_update"), resp.body)
	})

	t.Run("show someone else's aspect", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/aspects/"+jsonID(work.ID), api.fullToken(api.bob), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.aspects.not_found"), resp.body)
	})

	t.Run("delete bad id", func(t *testing.T) {
		resp := api.do(http.MethodDelete, "/api/v1/aspects/abc", alice, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.aspects.cant_delete"), resp.body)
	})

	t.Run("delete", func(t *testing.T) {
		resp := api.do(http.MethodDelete, "/api/v1/aspects/"+jsonID(work.ID), alice, nil)
		assert.Equal(t, http.StatusNoContent, resp.status)
	})

	t.Run("contacts read only cannot create", func(t *testing.T) {
		resp := api.do(http.MethodPost, "/api/v1/aspects", api.token(api.alice, auth.ScopeContactsRead),
			map[string]any{"name": "Gym", "chat_enabled": false})
		assert.Equal(t, http.StatusForbidden, resp.status)
	})
}

func jsonID(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}

func TestStreams(t *testing.T) {
	api := newTestAPI(t)
	bobPost := api.publicPost(api.bob, "bob says hi")
	private := api.friendsPost("friends news")
	api.publicPost(api.carol, "carol is a stranger")

	t.Run("main holds own and contacts posts", func(t *testing.T) {
		var page paging.Page[presenter.PostResponse]
		api.do(http.MethodGet, "/api/v1/streams/main", api.fullToken(api.alice), nil).decode(t, &page)

		var guids []string
		for _, p := range page.Data {
			guids = append(guids, p.GUID)
		}
		assert.Equal(t, []string{private.GUID, bobPost.GUID}, guids)
	})

	t.Run("aspects stream needs private read", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/streams/aspects", api.token(api.alice, auth.ScopeContactsRead), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
	})

	t.Run("aspects stream", func(t *testing.T) {
		var page paging.Page[presenter.PostResponse]
		resp := api.do(http.MethodGet, "/api/v1/streams/aspects?aspect_ids=["+jsonID(api.friends.ID)+"]",
			api.fullToken(api.alice), nil)
		require.Equal(t, http.StatusOK, resp.status, resp.body)
		resp.decode(t, &page)
		assert.Len(t, page.Data, 2)
	})

	t.Run("bad aspect ids", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/streams/aspects?aspect_ids=friends", api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.streams.bad_aspects"), resp.body)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/streams/aspects?before=tomorrow", api.fullToken(api.alice), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Equal(t, api.msg("api.endpoint_errors.invalid_pagination"), resp.body)
	})

	t.Run("tags stream needs tags read", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/streams/tags", api.token(api.alice, auth.ScopePublicRead), nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
	})

	t.Run("liked", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent,
			api.do(http.MethodPost, "/api/v1/posts/"+bobPost.GUID+"/likes", api.fullToken(api.carol), nil).status)

		var page paging.Page[presenter.PostResponse]
		api.do(http.MethodGet, "/api/v1/streams/liked", api.fullToken(api.carol), nil).decode(t, &page)
		require.Len(t, page.Data, 1)
		assert.Equal(t, bobPost.GUID, page.Data[0].GUID)
	})
}
