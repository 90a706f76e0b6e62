package models

import "time"

const (
	PostTypeStatusMessage = "StatusMessage"
	PostTypeReshare       = "Reshare"
)

type Post struct {
	ID                  int64     `db:"id"`
	GUID                string    `db:"guid"`
	AuthorID            string    `db:"author_id"`
	PostType            string    `db:"post_type"`
	Text                string    `db:"text"`
	Public              bool      `db:"public"`
	ProviderDisplayName string    `db:"provider_display_name"`
	RootID              *int64    `db:"root_id"` // Set for reshares only
	CreatedAt           time.Time `db:"created_at"`

	Tags         []string // Lowercased, without '#'
	MentionedIDs []string
	Audience     []string // Person IDs a private post was shared with

	// Computed on read
	CommentsCount int `db:"comments_count"`
	LikesCount    int `db:"likes_count"`
	ResharesCount int `db:"reshares_count"`

	// Hydrated by the service layer
	Author          *Person
	MentionedPeople []Person
	Root            *Post
}

// IsReshare reports whether the post points at a root post.
func (p *Post) IsReshare() bool {
	return p.PostType == PostTypeReshare
}

// NSFW reports whether the post is tagged #nsfw.
func (p *Post) NSFW() bool {
	for _, tag := range p.Tags {
		if tag == "nsfw" {
			return true
		}
	}
	return false
}

// InAudience reports whether personID may see the post when it is private.
func (p *Post) InAudience(personID string) bool {
	if p.AuthorID == personID {
		return true
	}
	for _, id := range p.Audience {
		if id == personID {
			return true
		}
	}
	return false
}
