// Package seed creates the demo accounts and content used in development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"podium/internal/auth"
	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
)

type aspectSpec struct {
	name    string
	members []string // users
}

// account is a local person created by the seeder
type account struct {
	user    string
	name    string
	aspects []aspectSpec
	tags    []string
	posts   []services.CreatePostRequest
}

var accounts = []account{
	{
		user: "alice",
		name: "Alice Liddell",
		aspects: []aspectSpec{
			{name: "Friends", members: []string{"bob"}},
			{name: "Family"},
		},
		tags: []string{"gardening"},
		posts: []services.CreatePostRequest{
			{Body: "Hello pod! First post here #introductions", Public: true},
			{Body: "Only my friends should read this", Public: false},
		},
	},
	{
		user: "bob",
		name: "Bob Builder",
		aspects: []aspectSpec{
			{name: "Work", members: []string{"alice"}},
		},
		tags: []string{"introductions"},
		posts: []services.CreatePostRequest{
			{Body: "Tomatoes are finally ripe #gardening", Public: true},
		},
	},
	{
		user: "carol",
		name: "Carol Danvers",
		posts: []services.CreatePostRequest{
			{Body: "Anyone around? Say hi @{alice@%s}", Public: true},
		},
	},
}

// Users lists the seeded user names in creation order.
func Users() []string {
	users := make([]string, len(accounts))
	for i, a := range accounts {
		users[i] = a.user
	}
	return users
}

// Seeder fills a store with demo data
type Seeder struct {
	repos   *repositories.Repositories
	posts   services.PostService
	podHost string
	logger  *slog.Logger
}

// NewSeeder creates a new seeder. Posts go through the post service so they
// are sanitized, tagged and federated like real ones.
func NewSeeder(repos *repositories.Repositories, posts services.PostService, podHost string, logger *slog.Logger) *Seeder {
	return &Seeder{
		repos:   repos,
		posts:   posts,
		podHost: podHost,
		logger:  logger,
	}
}

// Run seeds accounts and their content, returning the people keyed by user.
// Running it again reuses existing people and aspects.
func (s *Seeder) Run(ctx context.Context) (map[string]*models.Person, error) {
	people, err := s.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed people: %w", err)
	}
	if err := s.Content(ctx, people); err != nil {
		return nil, fmt.Errorf("seed content: %w", err)
	}
	return people, nil
}

// Accounts creates the seed people, reusing those that already exist.
func (s *Seeder) Accounts(ctx context.Context) (map[string]*models.Person, error) {
	people := make(map[string]*models.Person, len(accounts))
	for _, a := range accounts {
		handle := a.user + "@" + s.podHost
		person := &models.Person{DiasporaHandle: handle, Name: a.name, Local: true}

		err := s.repos.People.Create(ctx, person)
		switch {
		case errors.Is(err, domain.ErrConflict):
			if person, err = s.repos.People.GetByHandle(ctx, handle); err != nil {
				return nil, err
			}
			s.logger.Info("person exists", "handle", handle, "guid", person.GUID)
		case err != nil:
			return nil, fmt.Errorf("create %s: %w", handle, err)
		default:
			s.logger.Info("person created", "handle", handle, "guid", person.GUID)
		}
		people[a.user] = person
	}
	return people, nil
}

// Content fills aspects, followed tags and posts of the seed people.
func (s *Seeder) Content(ctx context.Context, people map[string]*models.Person) error {
	for _, a := range accounts {
		person := people[a.user]

		for _, spec := range a.aspects {
			aspect, err := s.ensureAspect(ctx, person.ID, spec.name)
			if err != nil {
				return err
			}
			for _, member := range spec.members {
				if err := s.repos.Aspects.AddMember(ctx, aspect.ID, people[member].ID); err != nil {
					return fmt.Errorf("add %s to %s: %w", member, spec.name, err)
				}
			}
		}

		for _, tag := range a.tags {
			if err := s.repos.Tags.Follow(ctx, person.ID, tag); err != nil {
				return err
			}
		}

		caller := &auth.Caller{PersonID: person.ID, GUID: person.GUID, Scopes: auth.AllScopes()}
		for _, req := range a.posts {
			if strings.Contains(req.Body, "%s") {
				req.Body = fmt.Sprintf(req.Body, s.podHost)
			}
			post, err := s.posts.Create(ctx, caller, &req)
			if err != nil {
				return fmt.Errorf("post by %s: %w", a.user, err)
			}
			s.logger.Info("post seeded", "guid", post.GUID, "user", a.user, "public", post.Public)
		}
	}
	return nil
}

func (s *Seeder) ensureAspect(ctx context.Context, ownerID, name string) (*models.Aspect, error) {
	existing, err := s.repos.Aspects.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if strings.EqualFold(existing[i].Name, name) {
			return &existing[i], nil
		}
	}

	aspect := &models.Aspect{OwnerID: ownerID, Name: name, Order: len(existing), ChatEnabled: true}
	if err := s.repos.Aspects.Create(ctx, aspect); err != nil {
		return nil, fmt.Errorf("create aspect %s: %w", name, err)
	}
	return aspect, nil
}
