// Package seed fills a store with fake users, thoughts, reactions and
// friendships for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/baharkarakas/thoughts-backend/internal/models"
	"github.com/baharkarakas/thoughts-backend/internal/services"
)

type Options struct {
	Users            int
	ThoughtsPerUser  int
	ReactionsPerPost int
	FriendsPerUser   int
	Seed             int64 // 0 picks a random seed
}

type Summary struct {
	Users     int
	Thoughts  int
	Reactions int
	Friends   int
}

// Run goes through the services, so seeded data passes the same validation,
// linking and event publishing as API traffic.
func Run(ctx context.Context, users *services.UserService, thoughts *services.ThoughtService, opts Options, log *slog.Logger) (Summary, error) {
	f := gofakeit.New(opts.Seed)
	var sum Summary

	created := make([]models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := users.Create(ctx, models.User{
			Username: fmt.Sprintf("%s%d", f.Username(), f.Number(100, 999)),
			Email:    f.Email(),
		})
		if models.CodeOf(err) == models.CodeConflict {
			log.Debug("seed: duplicate user skipped")
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("seed user: %w", err)
		}
		created = append(created, u)
		sum.Users++
	}

	for _, u := range created {
		for j := 0; j < opts.ThoughtsPerUser; j++ {
			t, err := thoughts.Create(ctx, models.Thought{ThoughtText: text(f), Username: u.Username})
			if err != nil {
				return sum, fmt.Errorf("seed thought: %w", err)
			}
			sum.Thoughts++

			for k := 0; k < opts.ReactionsPerPost && len(created) > 0; k++ {
				by := created[f.Number(0, len(created)-1)]
				if _, err := thoughts.AddReaction(ctx, t.ID, models.Reaction{
					ReactionBody: f.Phrase(),
					Username:     by.Username,
				}); err != nil {
					return sum, fmt.Errorf("seed reaction: %w", err)
				}
				sum.Reactions++
			}
		}
	}

	for _, u := range created {
		for k := 0; k < opts.FriendsPerUser && len(created) > 1; k++ {
			other := created[f.Number(0, len(created)-1)]
			if other.ID == u.ID {
				continue
			}
			_, err := users.AddFriend(ctx, u.ID, other.ID)
			if models.CodeOf(err) == models.CodeValidation {
				continue // already friends
			}
			if err != nil {
				return sum, fmt.Errorf("seed friend: %w", err)
			}
			sum.Friends++
		}
	}

	log.Info("seed complete", "users", sum.Users, "thoughts", sum.Thoughts, "reactions", sum.Reactions, "friends", sum.Friends)
	return sum, nil
}

func text(f *gofakeit.Faker) string {
	s := []rune(f.Sentence(f.Number(4, 20)))
	if len(s) > models.MaxTextLength {
		s = s[:models.MaxTextLength]
	}
	return string(s)
}
