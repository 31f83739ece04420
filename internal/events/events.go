// Package events publishes domain events (thought.created, friend.added, ...)
// to a topic exchange. The routing key is the event type.
package events

import (
	"context"
	"time"
)

const (
	ThoughtCreated  = "thought.created"
	ThoughtUpdated  = "thought.updated"
	ThoughtDeleted  = "thought.deleted"
	ReactionAdded   = "reaction.added"
	ReactionRemoved = "reaction.removed"
	UserCreated     = "user.created"
	UserUpdated     = "user.updated"
	UserDeleted     = "user.deleted"
	FriendAdded     = "friend.added"
	FriendRemoved   = "friend.removed"
)

type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

func New(typ, id string, data any) Event {
	return Event{Type: typ, ID: id, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error { return nil }
