package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/filter"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
	"github.com/siahsang/ncnews/models"
	"golang.org/x/sync/errgroup"
)

// sortColumns maps every sort_by value accepted by filter to its SQL
// expression. comment_count refers to the select alias.
var sortColumns = map[string]string{
	"article_id":      "articles.article_id",
	"title":           "articles.title",
	"topic":           "articles.topic",
	"author":          "articles.author",
	"body":            "articles.body",
	"created_at":      "articles.created_at",
	"votes":           "articles.votes",
	"article_img_url": "articles.article_img_url",
	"comment_count":   "comment_count",
}

var sortDirections = map[string]string{
	"asc":  "ASC",
	"desc": "DESC",
}

type ArticlePage struct {
	Articles   []*models.Article
	TotalCount int64
}

func (c *Core) GetArticleByID(ctx context.Context, articleID int64) (*models.Article, error) {
	const query = `
		SELECT articles.article_id, articles.title, articles.topic, articles.author, articles.body,
		       articles.created_at, articles.votes, articles.article_img_url,
		       COUNT(comments.comment_id) AS comment_count
		FROM comments
		RIGHT JOIN articles ON articles.article_id = comments.article_id
		WHERE articles.article_id = $1
		GROUP BY articles.article_id
	`

	article, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFound("Not Found")
		}
		return nil, xerrors.New(err)
	}

	return article, nil
}

// GetArticles lists articles for q. An unknown topic is rejected before the
// listing runs; the listing and the filtered count then run concurrently.
func (c *Core) GetArticles(ctx context.Context, q filter.ArticleQuery) (*ArticlePage, error) {
	if err := c.CheckExists(ctx, EntityTopic, q.Topic); err != nil {
		return nil, err
	}

	listQuery, listArgs, err := buildArticlesQuery(q)
	if err != nil {
		return nil, err
	}

	page := &ArticlePage{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		articles, err := databaseutils.ExecuteQuery(c.sqlTemplate, gctx, listQuery, scanArticleSummary, listArgs...)
		if err != nil {
			return xerrors.New(err)
		}
		page.Articles = articles
		return nil
	})

	if q.Paginated {
		g.Go(func() error {
			total, err := c.countArticles(gctx, q.Topic)
			if err != nil {
				return err
			}
			page.TotalCount = total
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(page.Articles) == 0 && q.Offset() > 0 {
		return nil, NotFound("Not Found")
	}

	return page, nil
}

func (c *Core) countArticles(ctx context.Context, topic string) (int64, error) {
	query, args := buildArticlesCountQuery(topic)

	total, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var total int64
		if err := rows.Scan(&total); err != nil {
			return 0, xerrors.New(err)
		}
		return total, nil
	}, args...)
	if err != nil {
		return 0, xerrors.New(err)
	}

	return total, nil
}

func (c *Core) CreateArticle(ctx context.Context, article *models.Article) (*models.Article, error) {
	const insertSQL = `
		INSERT INTO articles (title, topic, author, body, article_img_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING article_id
	`

	if err := c.CheckExists(ctx, EntityUser, article.Author); err != nil {
		return nil, err
	}
	if err := c.CheckExists(ctx, EntityTopic, article.Topic); err != nil {
		return nil, err
	}

	imgURL := article.ArticleImgURL
	if imgURL == "" {
		imgURL = models.DefaultArticleImgURL
	}

	articleID, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, func(rows *sql.Rows) (int64, error) {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, xerrors.New(err)
		}
		return id, nil
	}, article.Title, article.Topic, article.Author, article.Body, imgURL)
	if err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("article created", "article_id", articleID, "author", article.Author, "topic", article.Topic)
	return c.GetArticleByID(ctx, articleID)
}

func (c *Core) AddArticleVotes(ctx context.Context, articleID, delta int64) (*models.Article, error) {
	if err := c.CheckExists(ctx, EntityArticle, articleID); err != nil {
		return nil, err
	}
	return addVotes(c, ctx, EntityArticle, articleID, delta, scanArticle)
}

func buildArticlesQuery(q filter.ArticleQuery) (string, []any, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return "", nil, BadRequest("Bad Request: sort_by")
	}
	direction, ok := sortDirections[q.Order]
	if !ok {
		return "", nil, BadRequest("Bad Request: order")
	}
	if q.Limit <= 0 || q.Page < 1 || q.Page-1 > filter.MaxOffset/q.Limit {
		return "", nil, BadRequest("Bad Request: p")
	}

	var sb strings.Builder
	var args []any

	sb.WriteString(`
		SELECT articles.article_id, articles.title, articles.topic, articles.author,
		       articles.created_at, articles.votes, articles.article_img_url,
		       COUNT(comments.comment_id) AS comment_count
		FROM comments
		RIGHT JOIN articles ON articles.article_id = comments.article_id`)

	if q.Topic != "" {
		args = append(args, q.Topic)
		fmt.Fprintf(&sb, "\n\t\tWHERE articles.topic = $%d", len(args))
	}

	sb.WriteString("\n\t\tGROUP BY articles.article_id")
	fmt.Fprintf(&sb, "\n\t\tORDER BY %s %s, articles.article_id ASC", column, direction)

	args = append(args, q.Limit)
	fmt.Fprintf(&sb, "\n\t\tLIMIT $%d", len(args))

	if offset := q.Offset(); offset > 0 {
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args, nil
}

func buildArticlesCountQuery(topic string) (string, []any) {
	if topic == "" {
		return `SELECT COUNT(*) FROM articles`, nil
	}
	return `SELECT COUNT(*) FROM articles WHERE topic = $1`, []any{topic}
}

func scanArticle(rows *sql.Rows) (*models.Article, error) {
	var article models.Article
	if err := rows.Scan(
		&article.ArticleID,
		&article.Title,
		&article.Topic,
		&article.Author,
		&article.Body,
		&article.CreatedAt,
		&article.Votes,
		&article.ArticleImgURL,
		&article.CommentCount,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return &article, nil
}

func scanArticleSummary(rows *sql.Rows) (*models.Article, error) {
	var article models.Article
	if err := rows.Scan(
		&article.ArticleID,
		&article.Title,
		&article.Topic,
		&article.Author,
		&article.CreatedAt,
		&article.Votes,
		&article.ArticleImgURL,
		&article.CommentCount,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return &article, nil
}
