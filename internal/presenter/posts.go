package presenter

import (
	"time"

	"podium/internal/config"
	"podium/internal/domain/models"
	"podium/internal/service/content"
)

// PostResponse is the full representation of a post
type PostResponse struct {
	GUID                string              `json:"guid"`
	Body                string              `json:"body"`
	Title               string              `json:"title"`
	CreatedAt           time.Time           `json:"created_at"`
	PostType            string              `json:"post_type"`
	ProviderDisplayName string              `json:"provider_display_name"`
	Public              bool                `json:"public"`
	NSFW                bool                `json:"nsfw"`
	Author              *PersonResponse     `json:"author"`
	InteractionCounters InteractionCounters `json:"interaction_counters"`
	MentionedPeople     []PersonResponse    `json:"mentioned_people"`
	Root                *PostResponse       `json:"root,omitempty"`
}

// InteractionCounters are the post's interaction totals
type InteractionCounters struct {
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
	Reshares int `json:"reshares"`
}

// Post presents a post. A reshare shows its root's text and nests the root.
func Post(p *models.Post) *PostResponse {
	if p == nil {
		return nil
	}

	source := p
	if p.IsReshare() && p.Root != nil {
		source = p.Root
	}

	resp := &PostResponse{
		GUID:                p.GUID,
		Body:                source.Text,
		Title:               content.Title(source.Text, config.MaxTitleLength),
		CreatedAt:           p.CreatedAt.UTC(),
		PostType:            p.PostType,
		ProviderDisplayName: p.ProviderDisplayName,
		Public:              p.Public,
		NSFW:                source.NSFW(),
		Author:              Person(p.Author),
		InteractionCounters: InteractionCounters{
			Comments: p.CommentsCount,
			Likes:    p.LikesCount,
			Reshares: p.ResharesCount,
		},
		MentionedPeople: People(p.MentionedPeople),
	}
	if p.IsReshare() {
		resp.Root = Post(p.Root)
	}
	return resp
}

// Posts presents a list of posts
func Posts(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, *Post(&posts[i]))
	}
	return out
}

// ReshareResponse is the short form used in reshare listings
type ReshareResponse struct {
	GUID      string          `json:"guid"`
	CreatedAt time.Time       `json:"created_at"`
	Author    *PersonResponse `json:"author"`
}

// Reshare presents an entry of a post's reshare list
func Reshare(p models.Post) ReshareResponse {
	return ReshareResponse{
		GUID:      p.GUID,
		CreatedAt: p.CreatedAt.UTC(),
		Author:    Person(p.Author),
	}
}
