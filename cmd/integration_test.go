//go:build integration

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/siahsang/ncnews/internal/config"
	"github.com/siahsang/ncnews/internal/testutil"
	"github.com/siahsang/ncnews/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pg *testutil.Postgres

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	pg, err = testutil.StartPostgres(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	code := m.Run()
	pg.Close(ctx)
	os.Exit(code)
}

func newSeededServer(t *testing.T) http.Handler {
	t.Helper()
	pg.ResetDB(t)

	cfg := config.Default()
	cfg.Env = config.EnvDevelopment
	return newApplication(cfg, pg.DB, pg.Logger).routes()
}

func call(t *testing.T, handler http.Handler, method, target, body string, dst any) int {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if dst != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
	}
	return rec.Code
}

type articlesResponse struct {
	Articles   []models.Article `json:"articles"`
	TotalCount *int64           `json:"total_count"`
	Msg        string           `json:"msg"`
}

type articleResponse struct {
	Article models.Article `json:"article"`
	Msg     string         `json:"msg"`
}

type commentsResponse struct {
	Comments []models.Comment `json:"comments"`
	Msg      string           `json:"msg"`
}

type commentResponse struct {
	Comment models.Comment `json:"comment"`
	Msg     string         `json:"msg"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

func TestGetTopics(t *testing.T) {
	handler := newSeededServer(t)

	var res struct {
		Topics []models.Topic `json:"topics"`
	}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/topics", "", &res))

	require.Len(t, res.Topics, 3)
	for _, topic := range res.Topics {
		assert.NotEmpty(t, topic.Slug)
		assert.NotEmpty(t, topic.Description)
	}
}

func TestCreateTopic(t *testing.T) {
	handler := newSeededServer(t)

	var created struct {
		Topic models.Topic `json:"topic"`
	}
	status := call(t, handler, http.MethodPost, "/api/topics", `{"slug": "dogs", "description": "Not cats"}`, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.Topic{Slug: "dogs", Description: "Not cats"}, created.Topic)

	var dup msgResponse
	status = call(t, handler, http.MethodPost, "/api/topics", `{"slug": "dogs", "description": "Again"}`, &dup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Bad Request: Duplicate topic", dup.Msg)
}

func TestGetArticlesDefaults(t *testing.T) {
	handler := newSeededServer(t)

	var res articlesResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles", "", &res))

	require.Len(t, res.Articles, 10)
	assert.Nil(t, res.TotalCount)
	assert.Equal(t, int64(3), res.Articles[0].ArticleID)

	for i := 1; i < len(res.Articles); i++ {
		assert.False(t, res.Articles[i].CreatedAt.After(res.Articles[i-1].CreatedAt), "not sorted by created_at desc at %d", i)
	}
	for _, article := range res.Articles {
		assert.Empty(t, article.Body)
	}
}

func TestGetArticlesCommentCounts(t *testing.T) {
	handler := newSeededServer(t)

	var res articlesResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?limit=100", "", &res))
	require.Len(t, res.Articles, 12)

	counts := map[int64]int64{}
	for _, article := range res.Articles {
		counts[article.ArticleID] = article.CommentCount
	}

	assert.Equal(t, int64(5), counts[1])
	assert.Equal(t, int64(0), counts[2])
	assert.Equal(t, int64(2), counts[3])
	assert.Equal(t, int64(2), counts[5])
	assert.Equal(t, int64(2), counts[9])
}

func TestGetArticlesSorting(t *testing.T) {
	handler := newSeededServer(t)

	var res articlesResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?sort_by=title&order=asc&limit=100", "", &res))

	require.Len(t, res.Articles, 12)
	assert.Equal(t, "A", res.Articles[0].Title)
	assert.Equal(t, "Z", res.Articles[len(res.Articles)-1].Title)

	res = articlesResponse{}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?sort_by=comment_count", "", &res))
	assert.Equal(t, int64(1), res.Articles[0].ArticleID)
	for i := 1; i < len(res.Articles); i++ {
		assert.LessOrEqual(t, res.Articles[i].CommentCount, res.Articles[i-1].CommentCount)
	}

	res = articlesResponse{}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?sort_by=votes&order=ASC", "", &res))
	for i := 1; i < len(res.Articles); i++ {
		assert.GreaterOrEqual(t, res.Articles[i].Votes, res.Articles[i-1].Votes)
	}
}

func TestGetArticlesPagination(t *testing.T) {
	handler := newSeededServer(t)

	var res articlesResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?limit=5&p=3", "", &res))
	assert.Len(t, res.Articles, 2)
	require.NotNil(t, res.TotalCount)
	assert.Equal(t, int64(12), *res.TotalCount)

	res = articlesResponse{}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?topic=mitch&p=2", "", &res))
	assert.Len(t, res.Articles, 1)
	require.NotNil(t, res.TotalCount)
	assert.Equal(t, int64(11), *res.TotalCount)

	res = articlesResponse{}
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodGet, "/api/articles?p=99", "", &res))
	assert.Equal(t, "Not Found", res.Msg)
}

func TestGetArticlesByTopic(t *testing.T) {
	handler := newSeededServer(t)

	var res articlesResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?topic=cats", "", &res))
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "cats", res.Articles[0].Topic)

	res = articlesResponse{}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles?topic=paper", "", &res))
	assert.NotNil(t, res.Articles)
	assert.Empty(t, res.Articles)

	res = articlesResponse{}
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodGet, "/api/articles?topic=nonexistent", "", &res))
	assert.Equal(t, "Not Found: nonexistent", res.Msg)
}

func TestGetArticleByID(t *testing.T) {
	handler := newSeededServer(t)

	var res articleResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles/1", "", &res))
	assert.Equal(t, int64(1), res.Article.ArticleID)
	assert.Equal(t, "butter_bridge", res.Article.Author)
	assert.Equal(t, int64(100), res.Article.Votes)
	assert.Equal(t, int64(5), res.Article.CommentCount)
	assert.NotEmpty(t, res.Article.Body)

	res = articleResponse{}
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodGet, "/api/articles/9999", "", &res))
	assert.Equal(t, "Not Found", res.Msg)
}

func TestCreateArticleRoundTrip(t *testing.T) {
	handler := newSeededServer(t)

	var created articleResponse
	body := `{"author": "lurker", "title": "Cats on keyboards", "body": "qwerty", "topic": "cats"}`
	require.Equal(t, http.StatusCreated, call(t, handler, http.MethodPost, "/api/articles", body, &created))

	assert.Equal(t, int64(13), created.Article.ArticleID)
	assert.Equal(t, models.DefaultArticleImgURL, created.Article.ArticleImgURL)
	assert.Equal(t, int64(0), created.Article.Votes)
	assert.Equal(t, int64(0), created.Article.CommentCount)

	var fetched articleResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles/13", "", &fetched))
	assert.Equal(t, created.Article.Title, fetched.Article.Title)
	assert.Equal(t, created.Article.Body, fetched.Article.Body)
	assert.Equal(t, created.Article.ArticleImgURL, fetched.Article.ArticleImgURL)
}

func TestCreateArticleUnknownReferences(t *testing.T) {
	handler := newSeededServer(t)

	var res msgResponse
	body := `{"author": "nobody", "title": "t", "body": "b", "topic": "cats"}`
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodPost, "/api/articles", body, &res))
	assert.Equal(t, "Not Found: nobody", res.Msg)

	res = msgResponse{}
	body = `{"author": "lurker", "title": "t", "body": "b", "topic": "dogs"}`
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodPost, "/api/articles", body, &res))
	assert.Equal(t, "Not Found: dogs", res.Msg)
}

func TestPatchArticleVotes(t *testing.T) {
	handler := newSeededServer(t)

	var res articleResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodPatch, "/api/articles/1", `{"votes": -101}`, &res))
	assert.Equal(t, int64(-1), res.Article.Votes)
	assert.Equal(t, int64(5), res.Article.CommentCount)

	var missing msgResponse
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodPatch, "/api/articles/9999", `{"votes": 1}`, &missing))
	assert.Equal(t, "Not Found: 9999", missing.Msg)
}

func TestGetArticleComments(t *testing.T) {
	handler := newSeededServer(t)

	var res commentsResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles/1/comments", "", &res))
	require.Len(t, res.Comments, 5)
	for i, comment := range res.Comments {
		assert.Equal(t, int64(1), comment.ArticleID)
		if i > 0 {
			assert.False(t, comment.CreatedAt.After(res.Comments[i-1].CreatedAt))
		}
	}

	res = commentsResponse{}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles/2/comments", "", &res))
	assert.NotNil(t, res.Comments)
	assert.Empty(t, res.Comments)

	res = commentsResponse{}
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodGet, "/api/articles/9999/comments", "", &res))
	assert.Equal(t, "Not Found: 9999", res.Msg)
}

func TestCreateComment(t *testing.T) {
	handler := newSeededServer(t)

	var res commentResponse
	body := `{"username": "lurker", "body": "first!"}`
	require.Equal(t, http.StatusCreated, call(t, handler, http.MethodPost, "/api/articles/2/comments", body, &res))
	assert.Equal(t, int64(12), res.Comment.CommentID)
	assert.Equal(t, int64(2), res.Comment.ArticleID)
	assert.Equal(t, "lurker", res.Comment.Author)
	assert.Equal(t, "first!", res.Comment.Body)
	assert.Equal(t, int64(0), res.Comment.Votes)

	var article articleResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles/2", "", &article))
	assert.Equal(t, int64(1), article.Article.CommentCount)

	var missing msgResponse
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodPost, "/api/articles/9999/comments", body, &missing))
	assert.Equal(t, "Not Found: 9999", missing.Msg)

	missing = msgResponse{}
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodPost, "/api/articles/2/comments", `{"username": "nobody", "body": "hi"}`, &missing))
	assert.Equal(t, "Not Found: nobody", missing.Msg)

	missing = msgResponse{}
	assert.Equal(t, http.StatusBadRequest, call(t, handler, http.MethodPost, "/api/articles/2/comments", `{"username": "lurker"}`, &missing))
	assert.Equal(t, "Bad Request", missing.Msg)
}

func TestPatchCommentVotes(t *testing.T) {
	handler := newSeededServer(t)

	var res commentResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodPatch, "/api/comments/1", `{"votes": 4}`, &res))
	assert.Equal(t, int64(20), res.Comment.Votes)

	var missing msgResponse
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodPatch, "/api/comments/9999", `{"votes": 1}`, &missing))
	assert.Equal(t, "Not Found: 9999", missing.Msg)
}

func TestDeleteComment(t *testing.T) {
	handler := newSeededServer(t)

	assert.Equal(t, http.StatusNoContent, call(t, handler, http.MethodDelete, "/api/comments/1", "", nil))

	var res msgResponse
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodDelete, "/api/comments/1", "", &res))
	assert.Equal(t, "Not Found: 1", res.Msg)

	var article articleResponse
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/articles/9", "", &article))
	assert.Equal(t, int64(1), article.Article.CommentCount)
}

func TestUsers(t *testing.T) {
	handler := newSeededServer(t)

	var users struct {
		Users []models.User `json:"users"`
	}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/users", "", &users))
	assert.Len(t, users.Users, 4)

	var user struct {
		User models.User `json:"user"`
		Msg  string      `json:"msg"`
	}
	require.Equal(t, http.StatusOK, call(t, handler, http.MethodGet, "/api/users/lurker", "", &user))
	assert.Equal(t, "lurker", user.User.Username)
	assert.NotEmpty(t, user.User.AvatarURL)

	user.Msg = ""
	assert.Equal(t, http.StatusNotFound, call(t, handler, http.MethodGet, "/api/users/nobody", "", &user))
	assert.Equal(t, "Not Found: username nobody", user.Msg)
}
