package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
)

// Entity selects one of the fixed query templates used by the generic
// helpers. Table and column names never come from request input.
type Entity int

const (
	EntityTopic Entity = iota + 1
	EntityUser
	EntityArticle
	EntityComment
)

func (e Entity) String() string {
	switch e {
	case EntityTopic:
		return "topic"
	case EntityUser:
		return "user"
	case EntityArticle:
		return "article"
	case EntityComment:
		return "comment"
	default:
		return "unknown"
	}
}

var existsQueries = map[Entity]string{
	EntityTopic:   `SELECT EXISTS (SELECT 1 FROM topics WHERE slug = $1)`,
	EntityUser:    `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`,
	EntityArticle: `SELECT EXISTS (SELECT 1 FROM articles WHERE article_id = $1)`,
	EntityComment: `SELECT EXISTS (SELECT 1 FROM comments WHERE comment_id = $1)`,
}

var voteQueries = map[Entity]string{
	EntityArticle: `
		WITH updated AS (
			UPDATE articles SET votes = votes + $1
			WHERE article_id = $2
			RETURNING *
		)
		SELECT updated.article_id, updated.title, updated.topic, updated.author, updated.body,
		       updated.created_at, updated.votes, updated.article_img_url,
		       (SELECT COUNT(*) FROM comments WHERE comments.article_id = updated.article_id) AS comment_count
		FROM updated
	`,
	EntityComment: `
		UPDATE comments SET votes = votes + $1
		WHERE comment_id = $2
		RETURNING comment_id, body, article_id, author, votes, created_at
	`,
}

// CheckExists fails with a 404 naming value when no row of entity matches it.
// A nil or empty value passes.
func (c *Core) CheckExists(ctx context.Context, entity Entity, value any) error {
	if isAbsent(value) {
		return nil
	}

	query, ok := existsQueries[entity]
	if !ok {
		return xerrors.Newf("no existence query for entity %s", entity)
	}

	exists, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (bool, error) {
		var exists bool
		if err := rows.Scan(&exists); err != nil {
			return false, xerrors.New(err)
		}
		return exists, nil
	}, value)
	if err != nil {
		return xerrors.New(err)
	}

	if !exists {
		return NotFound("Not Found: %v", value)
	}
	return nil
}

// addVotes adds delta to the votes column of the entity row identified by id
// in a single statement and returns the updated row.
func addVotes[T any](c *Core, ctx context.Context, entity Entity, id, delta int64, extractor func(rows *sql.Rows) (T, error)) (T, error) {
	var zero T

	query, ok := voteQueries[entity]
	if !ok {
		return zero, xerrors.Newf("entity %s has no votes", entity)
	}

	updated, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, extractor, delta, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, NotFound("Not Found: %d", id)
		}
		return zero, xerrors.New(err)
	}

	c.log.Info("votes updated", "entity", entity.String(), "id", id, "delta", delta)
	return updated, nil
}

func isAbsent(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *string:
		return v == nil || *v == ""
	default:
		return false
	}
}
