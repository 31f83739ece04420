// Package mongodb stores users and thoughts as MongoDB documents. Reactions
// are embedded in their thought; users reference thoughts and friends by
// ObjectID.
package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/baharkarakas/thoughts-backend/internal/db"
	"github.com/baharkarakas/thoughts-backend/internal/models"
	"github.com/baharkarakas/thoughts-backend/internal/repository"
)

type reactionDoc struct {
	ReactionID   primitive.ObjectID `bson:"reactionId"`
	ReactionBody string             `bson:"reactionBody"`
	Username     string             `bson:"username"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type thoughtDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ThoughtText string             `bson:"thoughtText"`
	Username    string             `bson:"username"`
	CreatedAt   time.Time          `bson:"createdAt"`
	Reactions   []reactionDoc      `bson:"reactions"`
}

type userDoc struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Username string               `bson:"username"`
	Email    string               `bson:"email"`
	Thoughts []primitive.ObjectID `bson:"thoughts"`
	Friends  []primitive.ObjectID `bson:"friends"`
}

func NewRepositories(database *mongo.Database) repository.Repositories {
	return repository.Repositories{
		Users:    &usersRepo{coll: database.Collection(db.UsersCollection)},
		Thoughts: &thoughtsRepo{coll: database.Collection(db.ThoughtsCollection)},
	}
}

func (d thoughtDoc) model() models.Thought {
	t := models.Thought{
		ID:          d.ID.Hex(),
		ThoughtText: d.ThoughtText,
		Username:    d.Username,
		CreatedAt:   d.CreatedAt,
		Reactions:   make([]models.Reaction, 0, len(d.Reactions)),
	}
	for _, r := range d.Reactions {
		t.Reactions = append(t.Reactions, models.Reaction{
			ReactionID:   r.ReactionID.Hex(),
			ReactionBody: r.ReactionBody,
			Username:     r.Username,
			CreatedAt:    r.CreatedAt,
		})
	}
	return t
}

func (d userDoc) model() models.User {
	return models.User{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Email:    d.Email,
		Thoughts: hexes(d.Thoughts),
		Friends:  hexes(d.Friends),
	}
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

// objectIDs drops anything that is not a valid hex ObjectID; such ids can
// never match a stored document.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
