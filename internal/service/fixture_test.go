package service

import (
	"context"
	"sync"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/federation"
	"podium/internal/repository/memory"
)

type recordingDeferrer struct {
	mu   sync.Mutex
	jobs []federation.Job
}

func (d *recordingDeferrer) Defer(_ context.Context, job federation.Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

func (d *recordingDeferrer) last(t *testing.T) federation.Job {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.jobs, "no federation job deferred")
	return d.jobs[len(d.jobs)-1]
}

func (d *recordingDeferrer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

// fixture is a small pod: alice has bob in her "Friends" aspect, carol is a
// stranger to everyone.
type fixture struct {
	repos    *repositories.Repositories
	deferrer *recordingDeferrer

	alice, bob, carol *models.Person
	friends           *models.Aspect

	posts         *postService
	reshares      *reshareService
	comments      *commentService
	likes         *likeService
	conversations *conversationService
	aspects       *aspectService
	streams       *streamService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slogt.New(t)

	f := &fixture{
		repos:    memory.NewRepositories(memory.NewStore()),
		deferrer: &recordingDeferrer{},
	}

	person := func(handle, name string) *models.Person {
		p := &models.Person{DiasporaHandle: handle, Name: name, Local: true}
		require.NoError(t, f.repos.People.Create(ctx, p))
		return p
	}
	f.alice = person("alice@pod.example", "Alice")
	f.bob = person("bob@pod.example", "Bob")
	f.carol = person("carol@pod.example", "Carol")

	f.friends = &models.Aspect{OwnerID: f.alice.ID, Name: "Friends"}
	require.NoError(t, f.repos.Aspects.Create(ctx, f.friends))
	require.NoError(t, f.repos.Aspects.AddMember(ctx, f.friends.ID, f.bob.ID))

	r := f.repos
	f.posts = NewPostService(r.Posts, r.People, r.Aspects, f.deferrer, logger).(*postService)
	f.reshares = NewReshareService(r.Posts, r.People, f.deferrer, logger).(*reshareService)
	f.comments = NewCommentService(r.Posts, r.People, r.Comments, r.Reports, f.deferrer, logger).(*commentService)
	f.likes = NewLikeService(r.Posts, r.People, r.Likes, f.deferrer, logger).(*likeService)
	f.conversations = NewConversationService(r.Conversations, r.People, r.Aspects, f.deferrer, logger).(*conversationService)
	f.aspects = NewAspectService(r.Aspects, r.TxManager, logger).(*aspectService)
	f.streams = NewStreamService(r.Posts, r.People, r.Aspects, r.Tags, logger).(*streamService)
	return f
}

func callerFor(p *models.Person, scopes ...auth.Scope) *auth.Caller {
	return &auth.Caller{
		PersonID: p.ID,
		GUID:     p.GUID,
		TokenID:  "token-" + p.GUID,
		Scopes:   auth.NewScopeSet(scopes...),
	}
}

func fullCaller(p *models.Person) *auth.Caller {
	return &auth.Caller{PersonID: p.ID, GUID: p.GUID, Scopes: auth.AllScopes()}
}
