package main

import (
	"net/http"

	"github.com/siahsang/ncnews/internal/core"
	"github.com/siahsang/ncnews/internal/filter"
	"github.com/siahsang/ncnews/internal/validator"
	"github.com/siahsang/ncnews/models"
)

func (app *application) getArticles(w http.ResponseWriter, r *http.Request) {
	query, v := filter.ParseArticleQuery(r.URL.Query())
	if !v.IsValid() {
		app.errorResponse(w, r, core.BadRequest("Bad Request: %s", v.Fields()[0]))
		return
	}

	page, err := app.core.GetArticles(r.Context(), query)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	response := envelope{"articles": page.Articles}
	if query.Paginated {
		response["total_count"] = page.TotalCount
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) getArticleByID(w http.ResponseWriter, r *http.Request) {
	articleID, err := readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	article, err := app.core.GetArticleByID(r.Context(), articleID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) createArticle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Author        string `json:"author"`
		Title         string `json:"title"`
		Body          string `json:"body"`
		Topic         string `json:"topic"`
		ArticleImgURL string `json:"article_img_url"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.Author, "author", "must be provided")
	v.CheckNotBlank(input.Title, "title", "must be provided")
	v.CheckNotBlank(input.Body, "body", "must be provided")
	v.CheckNotBlank(input.Topic, "topic", "must be provided")

	if !v.IsValid() {
		app.errorResponse(w, r, validationError(v))
		return
	}

	article, err := app.core.CreateArticle(r.Context(), &models.Article{
		Author:        input.Author,
		Title:         input.Title,
		Body:          input.Body,
		Topic:         input.Topic,
		ArticleImgURL: input.ArticleImgURL,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"article": article}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) patchArticleVotes(w http.ResponseWriter, r *http.Request) {
	articleID, err := readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	delta, err := app.readVotes(w, r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	article, err := app.core.AddArticleVotes(r.Context(), articleID, delta)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

// readVotes reads the {"votes": delta} body shared by the vote endpoints.
func (app *application) readVotes(w http.ResponseWriter, r *http.Request) (int64, error) {
	var input struct {
		Votes *int64 `json:"votes"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		return 0, err
	}

	if input.Votes == nil {
		v := validator.New()
		v.AddError("votes", "must be provided")
		return 0, validationError(v)
	}

	return *input.Votes, nil
}
