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

type usersRepo struct{ coll *mongo.Collection }

func userNotFound() error { return models.NewNotFoundError(models.MsgUserNotFound) }

func byID(oid primitive.ObjectID) bson.D { return bson.D{{Key: "_id", Value: oid}} }

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.D{})
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, userNotFound()
	}
	return r.decodeOne(r.coll.FindOne(ctx, byID(oid)))
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	d := userDoc{
		ID:       primitive.NewObjectID(),
		Username: u.Username,
		Email:    u.Email,
		Thoughts: objectIDs(u.Thoughts),
		Friends:  objectIDs(u.Friends),
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return models.User{}, writeError(err)
	}
	return d.model(), nil
}

func (r *usersRepo) Update(ctx context.Context, id string, p models.UserPatch) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, userNotFound()
	}
	set := bson.D{}
	if p.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *p.Username})
	}
	if p.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *p.Email})
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	res := r.coll.FindOneAndUpdate(ctx, byID(oid), bson.D{{Key: "$set", Value: set}}, returnAfter)
	return r.decodeOne(res)
}

func (r *usersRepo) Delete(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, userNotFound()
	}
	return r.decodeOne(r.coll.FindOneAndDelete(ctx, byID(oid)))
}

func (r *usersRepo) AddFriend(ctx context.Context, userID, friendID string) (models.User, error) {
	uid, err1 := primitive.ObjectIDFromHex(userID)
	fid, err2 := primitive.ObjectIDFromHex(friendID)
	if err1 != nil || err2 != nil {
		return models.User{}, models.NewNotFoundError(models.MsgFriendNotFound)
	}

	n, err := r.coll.CountDocuments(ctx, byID(fid))
	if err != nil {
		return models.User{}, models.NewInternalError(err)
	}
	if n == 0 {
		return models.User{}, models.NewNotFoundError(models.MsgFriendNotFound)
	}

	filter := bson.D{
		{Key: "_id", Value: uid},
		{Key: "friends", Value: bson.D{{Key: "$ne", Value: fid}}},
	}
	push := bson.D{{Key: "$push", Value: bson.D{{Key: "friends", Value: fid}}}}
	u, err := r.decodeOne(r.coll.FindOneAndUpdate(ctx, filter, push, returnAfter))
	if !models.IsNotFound(err) {
		return u, err
	}

	// no match: the user is missing or already has this friend
	n, err = r.coll.CountDocuments(ctx, byID(uid))
	if err != nil {
		return models.User{}, models.NewInternalError(err)
	}
	if n == 0 {
		return models.User{}, models.NewNotFoundError(models.MsgFriendNotFound)
	}
	return models.User{}, models.NewValidationError(models.MsgFriendExists)
}

func (r *usersRepo) RemoveFriend(ctx context.Context, userID, friendID string) (models.User, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, userNotFound()
	}
	fid, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return r.GetByID(ctx, userID)
	}
	pull := bson.D{{Key: "$pull", Value: bson.D{{Key: "friends", Value: fid}}}}
	return r.decodeOne(r.coll.FindOneAndUpdate(ctx, byID(uid), pull, returnAfter))
}

func (r *usersRepo) LinkThought(ctx context.Context, username, thoughtID string) (string, error) {
	tid, err := primitive.ObjectIDFromHex(thoughtID)
	if err != nil {
		return "", models.NewValidationError("thought id is not a valid id")
	}
	filter := bson.D{{Key: "username", Value: username}}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "thoughts", Value: tid}}}}
	u, err := r.decodeOne(r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter))
	if models.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func (r *usersRepo) PullThought(ctx context.Context, thoughtID string) ([]string, error) {
	return r.pull(ctx, "thoughts", thoughtID)
}

func (r *usersRepo) PullFriend(ctx context.Context, friendID string) ([]string, error) {
	return r.pull(ctx, "friends", friendID)
}

// pull removes ref from the array field of every user holding it.
func (r *usersRepo) pull(ctx context.Context, field, ref string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, nil
	}
	filter := bson.D{{Key: field, Value: oid}}
	holders, err := r.find(ctx, filter, options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil || len(holders) == 0 {
		return nil, err
	}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: field, Value: oid}}}}
	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]string, 0, len(holders))
	for _, u := range holders {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *usersRepo) find(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *usersRepo) decodeOne(res *mongo.SingleResult) (models.User, error) {
	var d userDoc
	if err := res.Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, userNotFound()
		}
		return models.User{}, writeError(err)
	}
	return d.model(), nil
}

// writeError maps unique index violations on username/email to CONFLICT.
func writeError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return models.NewConflictError("username or email already exists", err)
	}
	return models.NewInternalError(err)
}
