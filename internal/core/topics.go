package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
	"github.com/siahsang/ncnews/models"
)

func (c *Core) GetTopics(ctx context.Context) ([]*models.Topic, error) {
	const query = `SELECT slug, description FROM topics ORDER BY slug`

	topics, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanTopic)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return topics, nil
}

// CreateTopic rejects an already used slug with a 400.
func (c *Core) CreateTopic(ctx context.Context, topic *models.Topic) (*models.Topic, error) {
	const insertSQL = `
		INSERT INTO topics (slug, description)
		VALUES ($1, $2)
		RETURNING slug, description
	`

	newTopic, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanTopic, topic.Slug, topic.Description)
	if err != nil {
		if code, ok := PQErrorCode(err); ok && code == CodeUniqueViolation {
			return nil, BadRequest("Bad Request: Duplicate topic")
		}
		return nil, xerrors.New(err)
	}

	c.log.Info("topic created", "slug", newTopic.Slug)
	return newTopic, nil
}

func scanTopic(rows *sql.Rows) (*models.Topic, error) {
	var topic models.Topic
	if err := rows.Scan(&topic.Slug, &topic.Description); err != nil {
		return nil, xerrors.New(err)
	}
	return &topic, nil
}
