package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userColumns = `id::text, username, email, thoughts, friends`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Thoughts, &u.Friends)
	if u.Thoughts == nil {
		u.Thoughts = []string{}
	}
	if u.Friends == nil {
		u.Friends = []string{}
	}
	return u, err
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	if !validID(id) {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	return u, dbError(err, models.MsgUserNotFound)
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	id := uuid.NewString()
	thoughts, friends := u.Thoughts, u.Friends
	if thoughts == nil {
		thoughts = []string{}
	}
	if friends == nil {
		friends = []string{}
	}
	created, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, email, thoughts, friends) VALUES($1,$2,$3,$4,$5)
		 RETURNING `+userColumns,
		id, u.Username, u.Email, thoughts, friends,
	))
	return created, dbError(err, models.MsgUserNotFound)
}

func (r *usersRepo) Update(ctx context.Context, id string, p models.UserPatch) (models.User, error) {
	if !validID(id) {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		    SET username = COALESCE($2, username),
		        email    = COALESCE($3, email)
		  WHERE id=$1
		  RETURNING `+userColumns,
		id, p.Username, p.Email,
	))
	return u, dbError(err, models.MsgUserNotFound)
}

func (r *usersRepo) Delete(ctx context.Context, id string) (models.User, error) {
	if !validID(id) {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `DELETE FROM users WHERE id=$1 RETURNING `+userColumns, id))
	return u, dbError(err, models.MsgUserNotFound)
}

func (r *usersRepo) AddFriend(ctx context.Context, userID, friendID string) (models.User, error) {
	if !validID(userID) || !validID(friendID) {
		return models.User{}, models.NewNotFoundError(models.MsgFriendNotFound)
	}
	var out models.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var n int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM users WHERE id = ANY($1::uuid[])`,
			[]string{userID, friendID}).Scan(&n); err != nil {
			return models.NewInternalError(err)
		}
		want := 2
		if userID == friendID {
			want = 1
		}
		if n < want {
			return models.NewNotFoundError(models.MsgFriendNotFound)
		}

		u, err := scanUser(tx.QueryRow(ctx,
			`UPDATE users SET friends = array_append(friends, $2)
			  WHERE id=$1 AND NOT ($2 = ANY(friends))
			  RETURNING `+userColumns,
			userID, friendID,
		))
		if err == pgx.ErrNoRows {
			return models.NewValidationError(models.MsgFriendExists)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		out = u
		return nil
	})
	return out, err
}

func (r *usersRepo) RemoveFriend(ctx context.Context, userID, friendID string) (models.User, error) {
	if !validID(userID) {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET friends = array_remove(friends, $2) WHERE id=$1 RETURNING `+userColumns,
		userID, friendID,
	))
	return u, dbError(err, models.MsgUserNotFound)
}

func (r *usersRepo) LinkThought(ctx context.Context, username, thoughtID string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET thoughts = CASE WHEN $2 = ANY(thoughts) THEN thoughts ELSE array_append(thoughts, $2) END
		  WHERE username=$1
		  RETURNING id::text`,
		username, thoughtID,
	).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return id, nil
}

func (r *usersRepo) PullThought(ctx context.Context, thoughtID string) ([]string, error) {
	return r.pull(ctx,
		`UPDATE users SET thoughts = array_remove(thoughts, $1) WHERE $1 = ANY(thoughts) RETURNING id::text`,
		thoughtID)
}

func (r *usersRepo) PullFriend(ctx context.Context, friendID string) ([]string, error) {
	return r.pull(ctx,
		`UPDATE users SET friends = array_remove(friends, $1) WHERE $1 = ANY(friends) RETURNING id::text`,
		friendID)
}

func (r *usersRepo) pull(ctx context.Context, q, ref string) ([]string, error) {
	rows, err := r.pool.Query(ctx, q, ref)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
