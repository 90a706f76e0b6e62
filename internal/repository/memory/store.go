// Package memory keeps every repository in process memory. It backs the
// server when no DATABASE_URL is configured and the service tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
)

// Store is the shared state behind the memory repositories. A single mutex
// guards everything; repositories never call each other while holding it.
type Store struct {
	mu sync.RWMutex

	nextID int64

	people   map[string]*models.Person
	posts    []*models.Post
	comments []*models.Comment
	likes    []*models.Like
	reports  []*models.Report

	conversations []*models.Conversation
	messages      []*models.Message
	visibility    map[int64]map[string]int // conversation id -> participant -> unread

	aspects []*models.Aspect
	members map[int64][]string // aspect id -> person ids

	followedTags map[string][]string
	revoked      map[string]time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		people:       make(map[string]*models.Person),
		visibility:   make(map[int64]map[string]int),
		members:      make(map[int64][]string),
		followedTags: make(map[string][]string),
		revoked:      make(map[string]time.Time),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// NewRepositories wires all memory repositories to s.
func NewRepositories(s *Store) *repositories.Repositories {
	return &repositories.Repositories{
		People:        &PersonRepository{s},
		Posts:         &PostRepository{s},
		Comments:      &CommentRepository{s},
		Likes:         &LikeRepository{s},
		Reports:       &ReportRepository{s},
		Conversations: &ConversationRepository{s},
		Aspects:       &AspectRepository{s},
		Tags:          &TagRepository{s},
		Tokens:        &TokenRepository{s},
		TxManager:     TransactionManager{},
	}
}

// TransactionManager runs units of work directly. Each repository call is
// atomic on its own; multi-step work is not isolated.
type TransactionManager struct{}

// ExecTx implements repositories.TransactionManager.
func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, s) })
}

func newGUID(guid string) string {
	if guid != "" {
		return guid
	}
	return uuid.NewString()
}
