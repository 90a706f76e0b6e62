// Package federation enqueues entities created on this pod for delivery to
// remote pods. Delivery itself runs in a separate worker that drains the
// outbox; this package only hands jobs over.
package federation

import (
	"context"
	"time"
)

// Entity types carried by a Job.
const (
	EntityPost         = "Post"
	EntityReshare      = "Reshare"
	EntityComment      = "Comment"
	EntityLike         = "Like"
	EntityConversation = "Conversation"
	EntityRetraction   = "Retraction"
)

// Job asks the delivery worker to federate one entity.
type Job struct {
	SenderGUID string    `json:"sender_guid"`
	EntityType string    `json:"entity_type"`
	EntityGUID string    `json:"entity_guid"`
	Recipients []string  `json:"recipients,omitempty"` // Person GUIDs; empty means public delivery
	CreatedAt  time.Time `json:"created_at"`
}

// Dispatcher hands a job to the delivery worker.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}
