package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	// Unmatched methods fall through to the route-not-found response.
	router.HandleMethodNotAllowed = false
	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	router.HandlerFunc(http.MethodGet, "/api", app.getEndpoints)

	router.HandlerFunc(http.MethodGet, "/api/topics", app.getTopics)
	router.HandlerFunc(http.MethodPost, "/api/topics", app.createTopic)

	router.HandlerFunc(http.MethodGet, "/api/articles", app.getArticles)
	router.HandlerFunc(http.MethodPost, "/api/articles", app.createArticle)
	router.HandlerFunc(http.MethodGet, "/api/articles/:article_id", app.getArticleByID)
	router.HandlerFunc(http.MethodPatch, "/api/articles/:article_id", app.patchArticleVotes)
	router.HandlerFunc(http.MethodGet, "/api/articles/:article_id/comments", app.getArticleComments)
	router.HandlerFunc(http.MethodPost, "/api/articles/:article_id/comments", app.createComment)

	router.HandlerFunc(http.MethodPatch, "/api/comments/:comment_id", app.patchCommentVotes)
	router.HandlerFunc(http.MethodDelete, "/api/comments/:comment_id", app.deleteComment)

	router.HandlerFunc(http.MethodGet, "/api/users", app.getUsers)
	router.HandlerFunc(http.MethodGet, "/api/users/:username", app.getUserByUsername)

	return app.recoverPanic(app.requestID(app.logRequest(router)))
}
