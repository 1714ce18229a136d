package main

import (
	"net/http"

	"github.com/siahsang/ncnews/internal/validator"
	"github.com/siahsang/ncnews/models"
)

func (app *application) getTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := app.core.GetTopics(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"topics": topics}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) createTopic(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.Slug, "slug", "must be provided")
	v.CheckNotBlank(input.Description, "description", "must be provided")

	if !v.IsValid() {
		app.errorResponse(w, r, validationError(v))
		return
	}

	topic, err := app.core.CreateTopic(r.Context(), &models.Topic{
		Slug:        input.Slug,
		Description: input.Description,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"topic": topic}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}
