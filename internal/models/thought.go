package models

import "time"

// Reaction is embedded in a Thought and has no collection of its own.
type Reaction struct {
	ReactionID   string    `json:"reactionId"`
	ReactionBody string    `json:"reactionBody" validate:"required,max=280"`
	Username     string    `json:"username" validate:"required"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r *Reaction) Validate() error { return wrapValidation(validate.Struct(r)) }

type Thought struct {
	ID          string     `json:"_id"`
	ThoughtText string     `json:"thoughtText" validate:"required,min=1,max=280"`
	Username    string     `json:"username" validate:"required"`
	CreatedAt   time.Time  `json:"createdAt"`
	Reactions   []Reaction `json:"reactions"`
}

func (t *Thought) Validate() error {
	if t.Reactions == nil {
		t.Reactions = []Reaction{}
	}
	return wrapValidation(validate.Struct(t))
}

func (t Thought) ReactionCount() int { return len(t.Reactions) }

func (t Thought) HasReaction(reactionID string) bool {
	for _, r := range t.Reactions {
		if r.ReactionID == reactionID {
			return true
		}
	}
	return false
}

// ThoughtPatch carries a partial update; nil fields are left untouched.
type ThoughtPatch struct {
	ThoughtText *string `json:"thoughtText" validate:"omitnil,min=1,max=280"`
	Username    *string `json:"username" validate:"omitnil,min=1"`
}

func (p *ThoughtPatch) Validate() error { return wrapValidation(validate.Struct(p)) }

func (p ThoughtPatch) Empty() bool { return p.ThoughtText == nil && p.Username == nil }

func (p ThoughtPatch) Apply(t *Thought) {
	if p.ThoughtText != nil {
		t.ThoughtText = *p.ThoughtText
	}
	if p.Username != nil {
		t.Username = *p.Username
	}
}
