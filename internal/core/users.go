package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
	"github.com/siahsang/ncnews/models"
)

func (c *Core) GetUsers(ctx context.Context) ([]*models.User, error) {
	const query = `SELECT username, name, avatar_url FROM users ORDER BY username`

	users, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanUser)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return users, nil
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `
		SELECT username, name, avatar_url
		FROM users
		WHERE username = $1
	`

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFound("Not Found: username %s", username)
		}
		return nil, xerrors.New(err)
	}

	return user, nil
}

func scanUser(rows *sql.Rows) (*models.User, error) {
	var user models.User
	if err := rows.Scan(&user.Username, &user.Name, &user.AvatarURL); err != nil {
		return nil, xerrors.New(err)
	}
	return &user, nil
}
