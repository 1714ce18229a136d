package database

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"os"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/utils/collectionutils"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
)

//go:embed data/seed.json
var defaultSeedJSON []byte

type SeedData struct {
	Topics   []SeedTopic   `json:"topics"`
	Users    []SeedUser    `json:"users"`
	Articles []SeedArticle `json:"articles"`
	Comments []SeedComment `json:"comments"`
}

type SeedTopic struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type SeedUser struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type SeedArticle struct {
	Title         string     `json:"title"`
	Topic         string     `json:"topic"`
	Author        string     `json:"author"`
	Body          string     `json:"body"`
	CreatedAt     *time.Time `json:"created_at"`
	Votes         int64      `json:"votes"`
	ArticleImgURL *string    `json:"article_img_url"`
}

// SeedComment names its article by title; ids are assigned on insert.
type SeedComment struct {
	Body         string     `json:"body"`
	ArticleTitle string     `json:"article_title"`
	Author       string     `json:"author"`
	Votes        int64      `json:"votes"`
	CreatedAt    *time.Time `json:"created_at"`
}

type SeedSummary struct {
	Topics   int
	Users    int
	Articles int
	Comments int
}

// DefaultSeedData returns the bundled development dataset.
func DefaultSeedData() (SeedData, error) {
	var data SeedData
	if err := json.Unmarshal(defaultSeedJSON, &data); err != nil {
		return SeedData{}, xerrors.Newf("parsing bundled seed data: %w", err)
	}
	return data, nil
}

func LoadSeedFile(path string) (SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, xerrors.New(err)
	}

	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return SeedData{}, xerrors.Newf("parsing %s: %w", path, err)
	}
	return data, nil
}

// Validate checks keys are unique and every reference resolves inside data.
func (d SeedData) Validate() error {
	if dups := collectionutils.Duplicates(d.Topics, func(t SeedTopic) string { return t.Slug }); len(dups) > 0 {
		return xerrors.Newf("duplicate topics %v", dups)
	}
	if dups := collectionutils.Duplicates(d.Users, func(u SeedUser) string { return u.Username }); len(dups) > 0 {
		return xerrors.Newf("duplicate users %v", dups)
	}
	if dups := collectionutils.Duplicates(d.Articles, func(a SeedArticle) string { return a.Title }); len(dups) > 0 {
		return xerrors.Newf("duplicate article titles %v", dups)
	}

	topics := collectionutils.Associate(d.Topics, func(t SeedTopic) (string, bool) { return t.Slug, true })
	users := collectionutils.Associate(d.Users, func(u SeedUser) (string, bool) { return u.Username, true })
	articles := collectionutils.Associate(d.Articles, func(a SeedArticle) (string, bool) { return a.Title, true })

	for _, article := range d.Articles {
		if !topics[article.Topic] {
			return xerrors.Newf("article %q references unknown topic %s", article.Title, article.Topic)
		}
		if !users[article.Author] {
			return xerrors.Newf("article %q references unknown user %s", article.Title, article.Author)
		}
	}

	for _, comment := range d.Comments {
		if !articles[comment.ArticleTitle] {
			return xerrors.Newf("comment references unknown article %q", comment.ArticleTitle)
		}
		if !users[comment.Author] {
			return xerrors.Newf("comment on %q references unknown user %s", comment.ArticleTitle, comment.Author)
		}
	}

	return nil
}

// Seed empties every table, resets the id sequences and inserts data, all in
// one transaction. Invalid data is rejected before anything is touched.
func Seed(ctx context.Context, session databaseutils.Session, tmpl *databaseutils.SQLTemplate, data SeedData) (SeedSummary, error) {
	if err := data.Validate(); err != nil {
		return SeedSummary{}, err
	}

	return databaseutils.DoTransactionally(ctx, session, func(txCtx context.Context) (SeedSummary, error) {
		var summary SeedSummary

		if _, err := databaseutils.Execute(tmpl, txCtx,
			`TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE`); err != nil {
			return summary, xerrors.Newf("truncating tables: %w", err)
		}

		for _, topic := range data.Topics {
			if _, err := databaseutils.Execute(tmpl, txCtx,
				`INSERT INTO topics (slug, description) VALUES ($1, $2)`,
				topic.Slug, topic.Description); err != nil {
				return summary, xerrors.Newf("inserting topic %s: %w", topic.Slug, err)
			}
			summary.Topics++
		}

		for _, user := range data.Users {
			if _, err := databaseutils.Execute(tmpl, txCtx,
				`INSERT INTO users (username, name, avatar_url) VALUES ($1, $2, $3)`,
				user.Username, user.Name, user.AvatarURL); err != nil {
				return summary, xerrors.Newf("inserting user %s: %w", user.Username, err)
			}
			summary.Users++
		}

		articleIDs := make(map[string]int64, len(data.Articles))
		for _, article := range data.Articles {
			id, err := databaseutils.ExecuteSingleQuery(tmpl, txCtx, `
				INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
				VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), $6,
				        COALESCE($7, 'https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700'))
				RETURNING article_id
			`, scanID, article.Title, article.Topic, article.Author, article.Body,
				article.CreatedAt, article.Votes, article.ArticleImgURL)
			if err != nil {
				return summary, xerrors.Newf("inserting article %q: %w", article.Title, err)
			}
			articleIDs[article.Title] = id
			summary.Articles++
		}

		for _, comment := range data.Comments {
			articleID, ok := articleIDs[comment.ArticleTitle]
			if !ok {
				return summary, xerrors.Newf("comment references unknown article %q", comment.ArticleTitle)
			}
			if _, err := databaseutils.Execute(tmpl, txCtx, `
				INSERT INTO comments (body, article_id, author, votes, created_at)
				VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
			`, comment.Body, articleID, comment.Author, comment.Votes, comment.CreatedAt); err != nil {
				return summary, xerrors.Newf("inserting comment on %q: %w", comment.ArticleTitle, err)
			}
			summary.Comments++
		}

		return summary, nil
	})
}

func scanID(rows *sql.Rows) (int64, error) {
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, xerrors.New(err)
	}
	return id, nil
}
