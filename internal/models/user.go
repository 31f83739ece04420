package models

import (
	"strings"
)

type User struct {
	ID       string   `json:"_id"`
	Username string   `json:"username" validate:"required"`
	Email    string   `json:"email" validate:"required,looseemail"`
	Thoughts []string `json:"thoughts"`
	Friends  []string `json:"friends"`
}

func (u *User) Validate() error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	if u.Thoughts == nil {
		u.Thoughts = []string{}
	}
	if u.Friends == nil {
		u.Friends = []string{}
	}
	return wrapValidation(validate.Struct(u))
}

func (u User) FriendCount() int { return len(u.Friends) }

func (u User) HasFriend(id string) bool { return contains(u.Friends, id) }

func (u User) HasThought(id string) bool { return contains(u.Thoughts, id) }

type UserPatch struct {
	Username *string `json:"username" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,looseemail"`
}

func (p *UserPatch) Validate() error {
	if p.Username != nil {
		s := strings.TrimSpace(*p.Username)
		p.Username = &s
	}
	if p.Email != nil {
		s := strings.TrimSpace(*p.Email)
		p.Email = &s
	}
	return wrapValidation(validate.Struct(p))
}

func (p UserPatch) Empty() bool { return p.Username == nil && p.Email == nil }

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
