package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type thoughtsRepo struct{ coll *mongo.Collection }

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

func thoughtNotFound() error { return models.NewNotFoundError(models.MsgThoughtNotFound) }

func (r *thoughtsRepo) List(ctx context.Context) ([]models.Thought, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var docs []thoughtDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make([]models.Thought, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *thoughtsRepo) GetByID(ctx context.Context, id string) (models.Thought, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Thought{}, thoughtNotFound()
	}
	var d thoughtDoc
	return r.decodeOne(r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}), &d)
}

func (r *thoughtsRepo) Create(ctx context.Context, t models.Thought) (models.Thought, error) {
	d := thoughtDoc{
		ID:          primitive.NewObjectID(),
		ThoughtText: t.ThoughtText,
		Username:    t.Username,
		CreatedAt:   t.CreatedAt,
		Reactions:   []reactionDoc{},
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return models.Thought{}, models.NewInternalError(err)
	}
	return d.model(), nil
}

func (r *thoughtsRepo) Update(ctx context.Context, id string, p models.ThoughtPatch) (models.Thought, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Thought{}, thoughtNotFound()
	}
	set := bson.D{}
	if p.ThoughtText != nil {
		set = append(set, bson.E{Key: "thoughtText", Value: *p.ThoughtText})
	}
	if p.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *p.Username})
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	var d thoughtDoc
	res := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, returnAfter)
	return r.decodeOne(res, &d)
}

func (r *thoughtsRepo) Delete(ctx context.Context, id string) (models.Thought, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Thought{}, thoughtNotFound()
	}
	var d thoughtDoc
	return r.decodeOne(r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}), &d)
}

func (r *thoughtsRepo) AddReaction(ctx context.Context, thoughtID string, reaction models.Reaction) (models.Thought, error) {
	oid, err := primitive.ObjectIDFromHex(thoughtID)
	if err != nil {
		return models.Thought{}, thoughtNotFound()
	}
	rid := primitive.NewObjectID()
	if reaction.ReactionID != "" {
		if rid, err = primitive.ObjectIDFromHex(reaction.ReactionID); err != nil {
			return models.Thought{}, models.NewValidationError("reactionId is not a valid id")
		}
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "reactions.reactionId", Value: bson.D{{Key: "$ne", Value: rid}}},
	}
	push := bson.D{{Key: "$push", Value: bson.D{{Key: "reactions", Value: reactionDoc{
		ReactionID:   rid,
		ReactionBody: reaction.ReactionBody,
		Username:     reaction.Username,
		CreatedAt:    reaction.CreatedAt,
	}}}}}

	var d thoughtDoc
	t, err := r.decodeOne(r.coll.FindOneAndUpdate(ctx, filter, push, returnAfter), &d)
	if models.IsNotFound(err) {
		// either the thought is gone or the reaction is already there
		return r.GetByID(ctx, thoughtID)
	}
	return t, err
}

func (r *thoughtsRepo) RemoveReaction(ctx context.Context, thoughtID, reactionID string) (models.Thought, error) {
	oid, err := primitive.ObjectIDFromHex(thoughtID)
	if err != nil {
		return models.Thought{}, thoughtNotFound()
	}
	rid, err := primitive.ObjectIDFromHex(reactionID)
	if err != nil {
		return r.GetByID(ctx, thoughtID)
	}
	pull := bson.D{{Key: "$pull", Value: bson.D{{Key: "reactions", Value: bson.D{{Key: "reactionId", Value: rid}}}}}}
	var d thoughtDoc
	return r.decodeOne(r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, pull, returnAfter), &d)
}

func (r *thoughtsRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return res.DeletedCount, nil
}

func (r *thoughtsRepo) decodeOne(res *mongo.SingleResult, d *thoughtDoc) (models.Thought, error) {
	if err := res.Decode(d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Thought{}, thoughtNotFound()
		}
		return models.Thought{}, models.NewInternalError(err)
	}
	return d.model(), nil
}
