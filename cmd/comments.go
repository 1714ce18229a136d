package main

import (
	"net/http"

	"github.com/siahsang/ncnews/internal/core"
	"github.com/siahsang/ncnews/internal/validator"
	"github.com/siahsang/ncnews/models"
	"golang.org/x/sync/errgroup"
)

// getArticleComments checks the article and fetches its comments
// concurrently; an unknown article wins over an empty list.
func (app *application) getArticleComments(w http.ResponseWriter, r *http.Request) {
	articleID, err := readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	var comments []*models.Comment
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		return app.core.CheckExists(ctx, core.EntityArticle, articleID)
	})
	g.Go(func() error {
		var err error
		comments, err = app.core.GetCommentsByArticleID(ctx, articleID)
		return err
	})

	if err := g.Wait(); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	articleID, err := readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	var input struct {
		Username string `json:"username"`
		Body     string `json:"body"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.Username, "username", "must be provided")
	v.CheckNotBlank(input.Body, "body", "must be provided")

	if !v.IsValid() {
		app.errorResponse(w, r, validationError(v))
		return
	}

	comment, err := app.core.CreateComment(r.Context(), &models.Comment{
		ArticleID: articleID,
		Author:    input.Username,
		Body:      input.Body,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) patchCommentVotes(w http.ResponseWriter, r *http.Request) {
	commentID, err := readIDParam(r, "comment_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	delta, err := app.readVotes(w, r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	comment, err := app.core.AddCommentVotes(r.Context(), commentID, delta)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comment": comment}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) deleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := readIDParam(r, "comment_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.core.RemoveCommentByID(r.Context(), commentID); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
