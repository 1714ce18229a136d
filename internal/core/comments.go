package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
	"github.com/siahsang/ncnews/models"
)

// GetCommentsByArticleID returns the comments of an article, newest first.
// It does not check that the article exists.
func (c *Core) GetCommentsByArticleID(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	const query = `
		SELECT comment_id, body, article_id, author, votes, created_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC, comment_id DESC
	`

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, articleID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return comments, nil
}

func (c *Core) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	const insertSQL = `
		INSERT INTO comments (body, article_id, author)
		VALUES ($1, $2, $3)
		RETURNING comment_id, body, article_id, author, votes, created_at
	`

	if err := c.CheckExists(ctx, EntityArticle, comment.ArticleID); err != nil {
		return nil, err
	}
	if err := c.CheckExists(ctx, EntityUser, comment.Author); err != nil {
		return nil, err
	}

	newComment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanComment,
		comment.Body, comment.ArticleID, comment.Author)
	if err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("comment created", "comment_id", newComment.CommentID, "article_id", newComment.ArticleID)
	return newComment, nil
}

func (c *Core) AddCommentVotes(ctx context.Context, commentID, delta int64) (*models.Comment, error) {
	if err := c.CheckExists(ctx, EntityComment, commentID); err != nil {
		return nil, err
	}
	return addVotes(c, ctx, EntityComment, commentID, delta, scanComment)
}

func (c *Core) RemoveCommentByID(ctx context.Context, commentID int64) error {
	const deleteSQL = `DELETE FROM comments WHERE comment_id = $1`

	affected, err := databaseutils.Execute(c.sqlTemplate, ctx, deleteSQL, commentID)
	if err != nil {
		return xerrors.New(err)
	}

	if affected == 0 {
		return NotFound("Not Found: %d", commentID)
	}

	c.log.Info("comment deleted", "comment_id", commentID)
	return nil
}

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	var comment models.Comment
	if err := rows.Scan(
		&comment.CommentID,
		&comment.Body,
		&comment.ArticleID,
		&comment.Author,
		&comment.Votes,
		&comment.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return &comment, nil
}
