package handlers

import (
	"time"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

// DateLayout renders createdAt as a calendar date, e.g. "Tue Mar 05 2024".
const DateLayout = "Mon Jan 02 2006"

func formatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

type reactionView struct {
	ReactionID   string `json:"reactionId"`
	ReactionBody string `json:"reactionBody"`
	Username     string `json:"username"`
	CreatedAt    string `json:"createdAt"`
}

type thoughtView struct {
	ID            string         `json:"_id"`
	ThoughtText   string         `json:"thoughtText"`
	CreatedAt     string         `json:"createdAt"`
	Username      string         `json:"username"`
	Reactions     []reactionView `json:"reactions"`
	ReactionCount int            `json:"reactionCount"`
}

func newThoughtView(t models.Thought) thoughtView {
	v := thoughtView{
		ID:            t.ID,
		ThoughtText:   t.ThoughtText,
		CreatedAt:     formatDate(t.CreatedAt),
		Username:      t.Username,
		Reactions:     make([]reactionView, 0, len(t.Reactions)),
		ReactionCount: t.ReactionCount(),
	}
	for _, r := range t.Reactions {
		v.Reactions = append(v.Reactions, reactionView{
			ReactionID:   r.ReactionID,
			ReactionBody: r.ReactionBody,
			Username:     r.Username,
			CreatedAt:    formatDate(r.CreatedAt),
		})
	}
	return v
}

func newThoughtViews(ts []models.Thought) []thoughtView {
	out := make([]thoughtView, 0, len(ts))
	for _, t := range ts {
		out = append(out, newThoughtView(t))
	}
	return out
}

type userView struct {
	ID          string   `json:"_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Thoughts    []string `json:"thoughts"`
	Friends     []string `json:"friends"`
	FriendCount int      `json:"friendCount"`
}

func newUserView(u models.User) userView {
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Thoughts:    nonNil(u.Thoughts),
		Friends:     nonNil(u.Friends),
		FriendCount: u.FriendCount(),
	}
}

func newUserViews(us []models.User) []userView {
	out := make([]userView, 0, len(us))
	for _, u := range us {
		out = append(out, newUserView(u))
	}
	return out
}

// userSummary is the projection served by GET /users/{id}.
type userSummary struct {
	Username string   `json:"username"`
	Thoughts []string `json:"thoughts"`
	Friends  []string `json:"friends"`
}

func newUserSummary(u models.User) userSummary {
	return userSummary{Username: u.Username, Thoughts: nonNil(u.Thoughts), Friends: nonNil(u.Friends)}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type messageResp struct {
	Message string `json:"message"`
}
