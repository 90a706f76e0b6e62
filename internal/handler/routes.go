package handler

import (
	"log/slog"
	"net/http"

	"podium/internal/auth"
	"podium/internal/domain/services"
	"podium/internal/locale"
	"podium/internal/middleware"
)

// Services are the business operations the API exposes.
type Services struct {
	Posts         services.PostService
	Reshares      services.ReshareService
	Comments      services.CommentService
	Likes         services.LikeService
	Conversations services.ConversationService
	Aspects       services.AspectService
	Streams       services.StreamService
}

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Posts         *PostHandler
	Reshares      *ReshareHandler
	Comments      *CommentHandler
	Likes         *LikeHandler
	Conversations *ConversationHandler
	Aspects       *AspectHandler
	Streams       *StreamHandler
	Health        *HealthHandler
}

// NewHandlers builds the handlers for svc. store backs the health check and may be nil.
func NewHandlers(svc Services, store Pinger, catalog *locale.Catalog, logger *slog.Logger) *Handlers {
	return &Handlers{
		Posts:         NewPostHandler(svc.Posts, catalog, logger),
		Reshares:      NewReshareHandler(svc.Reshares, catalog, logger),
		Comments:      NewCommentHandler(svc.Comments, catalog, logger),
		Likes:         NewLikeHandler(svc.Likes, catalog, logger),
		Conversations: NewConversationHandler(svc.Conversations, catalog, logger),
		Aspects:       NewAspectHandler(svc.Aspects, catalog, logger),
		Streams:       NewStreamHandler(svc.Streams, catalog, logger),
		Health:        NewHealthHandler(store, logger),
	}
}

// RegisterRoutes mounts the API on mux. Each route declares the scopes its
// token must grant; the gate checks them before the handler runs.
func RegisterRoutes(mux *http.ServeMux, h *Handlers, gate *middleware.Gate) {
	const (
		publicRead     = auth.ScopePublicRead
		publicModify   = auth.ScopePublicModify
		privateRead    = auth.ScopePrivateRead
		interactions   = auth.ScopeInteractions
		conversations  = auth.ScopeConversations
		contactsRead   = auth.ScopeContactsRead
		contactsModify = auth.ScopeContactsModify
		tagsRead       = auth.ScopeTagsRead
	)
	route := func(pattern string, fn http.HandlerFunc, scopes ...auth.Scope) {
		mux.HandleFunc(pattern, gate.Require(scopes...)(fn))
	}

	// Health check
	mux.HandleFunc("GET /health", h.Health.Check)

	// Post routes
	route("POST /api/v1/posts", h.Posts.Create, publicModify)
	route("GET /api/v1/posts/{post_id}", h.Posts.Show, publicRead)
	route("DELETE /api/v1/posts/{post_id}", h.Posts.Destroy, publicModify)

	// Comment routes
	route("GET /api/v1/posts/{post_id}/comments", h.Comments.List, interactions, publicRead)
	route("POST /api/v1/posts/{post_id}/comments", h.Comments.Create, interactions, publicRead, publicModify)
	route("DELETE /api/v1/posts/{post_id}/comments/{comment_id}", h.Comments.Destroy, interactions, publicRead, publicModify)
	route("POST /api/v1/posts/{post_id}/comments/{comment_id}/report", h.Comments.Report, interactions, publicRead)

	// Like routes
	route("GET /api/v1/posts/{post_id}/likes", h.Likes.List, interactions, publicRead)
	route("POST /api/v1/posts/{post_id}/likes", h.Likes.Create, interactions, publicModify)
	route("DELETE /api/v1/posts/{post_id}/likes", h.Likes.Destroy, interactions, publicModify)

	// Reshare routes
	route("GET /api/v1/posts/{post_id}/reshares", h.Reshares.List, publicRead)
	route("POST /api/v1/posts/{post_id}/reshares", h.Reshares.Create, publicRead, publicModify)

	// Conversation routes
	route("GET /api/v1/conversations", h.Conversations.List, conversations)
	route("POST /api/v1/conversations", h.Conversations.Create, conversations)
	route("GET /api/v1/conversations/{id}", h.Conversations.Show, conversations)
	route("DELETE /api/v1/conversations/{id}", h.Conversations.Destroy, conversations)

	// Aspect routes
	route("GET /api/v1/aspects", h.Aspects.List, contactsRead)
	route("POST /api/v1/aspects", h.Aspects.Create, contactsModify)
	route("GET /api/v1/aspects/{id}", h.Aspects.Show, contactsRead)
	route("PATCH /api/v1/aspects/{id}", h.Aspects.Update, contactsModify)
	route("DELETE /api/v1/aspects/{id}", h.Aspects.Destroy, contactsModify)

	// Stream routes
	route("GET /api/v1/streams/main", h.Streams.Main, publicRead)
	route("GET /api/v1/streams/aspects", h.Streams.Aspects, contactsRead, privateRead)
	route("GET /api/v1/streams/tags", h.Streams.Tags, tagsRead)
	route("GET /api/v1/streams/activity", h.Streams.Activity, publicRead)
	route("GET /api/v1/streams/commented", h.Streams.Commented, publicRead)
	route("GET /api/v1/streams/mentions", h.Streams.Mentions, publicRead)
	route("GET /api/v1/streams/liked", h.Streams.Liked, publicRead)
}
