package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type thoughtsRepo struct{ pool *pgxpool.Pool }

const thoughtColumns = `id::text, thought_text, username, created_at, reactions`

func scanThought(row pgx.Row) (models.Thought, error) {
	var t models.Thought
	err := row.Scan(&t.ID, &t.ThoughtText, &t.Username, &t.CreatedAt, &t.Reactions)
	if t.Reactions == nil {
		t.Reactions = []models.Reaction{}
	}
	return t, err
}

func (r *thoughtsRepo) List(ctx context.Context) ([]models.Thought, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+thoughtColumns+` FROM thoughts ORDER BY created_at, id`)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer rows.Close()

	out := []models.Thought{}
	for rows.Next() {
		t, err := scanThought(rows)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *thoughtsRepo) GetByID(ctx context.Context, id string) (models.Thought, error) {
	if !validID(id) {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	t, err := scanThought(r.pool.QueryRow(ctx, `SELECT `+thoughtColumns+` FROM thoughts WHERE id=$1`, id))
	return t, dbError(err, models.MsgThoughtNotFound)
}

func (r *thoughtsRepo) Create(ctx context.Context, t models.Thought) (models.Thought, error) {
	created, err := scanThought(r.pool.QueryRow(ctx,
		`INSERT INTO thoughts(id, thought_text, username, created_at) VALUES($1,$2,$3,$4)
		 RETURNING `+thoughtColumns,
		uuid.NewString(), t.ThoughtText, t.Username, t.CreatedAt,
	))
	return created, dbError(err, models.MsgThoughtNotFound)
}

func (r *thoughtsRepo) Update(ctx context.Context, id string, p models.ThoughtPatch) (models.Thought, error) {
	if !validID(id) {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	t, err := scanThought(r.pool.QueryRow(ctx,
		`UPDATE thoughts
		    SET thought_text = COALESCE($2, thought_text),
		        username     = COALESCE($3, username)
		  WHERE id=$1
		  RETURNING `+thoughtColumns,
		id, p.ThoughtText, p.Username,
	))
	return t, dbError(err, models.MsgThoughtNotFound)
}

func (r *thoughtsRepo) Delete(ctx context.Context, id string) (models.Thought, error) {
	if !validID(id) {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	t, err := scanThought(r.pool.QueryRow(ctx, `DELETE FROM thoughts WHERE id=$1 RETURNING `+thoughtColumns, id))
	return t, dbError(err, models.MsgThoughtNotFound)
}

func (r *thoughtsRepo) AddReaction(ctx context.Context, thoughtID string, reaction models.Reaction) (models.Thought, error) {
	if !validID(thoughtID) {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	if reaction.ReactionID == "" {
		reaction.ReactionID = uuid.NewString()
	}
	body, err := json.Marshal(reaction)
	if err != nil {
		return models.Thought{}, models.NewInternalError(err)
	}
	// the containment check keeps reactionId unique inside the array
	t, err := scanThought(r.pool.QueryRow(ctx,
		`UPDATE thoughts
		    SET reactions = CASE
		        WHEN reactions @> jsonb_build_array(jsonb_build_object('reactionId', $2::text)) THEN reactions
		        ELSE reactions || jsonb_build_array($3::jsonb)
		    END
		  WHERE id=$1
		  RETURNING `+thoughtColumns,
		thoughtID, reaction.ReactionID, string(body),
	))
	return t, dbError(err, models.MsgThoughtNotFound)
}

func (r *thoughtsRepo) RemoveReaction(ctx context.Context, thoughtID, reactionID string) (models.Thought, error) {
	if !validID(thoughtID) {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	t, err := scanThought(r.pool.QueryRow(ctx,
		`UPDATE thoughts
		    SET reactions = COALESCE(
		        (SELECT jsonb_agg(elem) FROM jsonb_array_elements(reactions) elem
		          WHERE elem->>'reactionId' <> $2),
		        '[]'::jsonb)
		  WHERE id=$1
		  RETURNING `+thoughtColumns,
		thoughtID, reactionID,
	))
	return t, dbError(err, models.MsgThoughtNotFound)
}

func (r *thoughtsRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM thoughts WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return tag.RowsAffected(), nil
}
