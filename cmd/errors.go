package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/core"
	"github.com/siahsang/ncnews/internal/web"
)

// errorResponse is the last stop for every failed request. Rejections carry
// their own status; known postgres codes become client errors; anything else
// is a 500.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classifyError(err)

	attrs := []slog.Attr{
		slog.String("request_url", r.URL.String()),
		slog.String("request_method", r.Method),
		slog.String("request_id", web.RequestID(r.Context())),
		slog.Int("status", status),
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		attrs = append(attrs, slog.String("stack", xerrors.Sprint(err)))
	} else {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	app.logger.LogAttrs(r.Context(), level, "error handling request", attrs...)

	if err := app.writeJSON(w, status, envelope{"msg": msg}, nil); err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func classifyError(err error) (int, string) {
	var statusErr *core.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status, statusErr.Msg
	}

	if code, ok := core.PQErrorCode(err); ok {
		switch code {
		case core.CodeInvalidTextRepresentation, core.CodeNotNullViolation, core.CodeUniqueViolation:
			return http.StatusBadRequest, "Bad Request"
		case core.CodeForeignKeyViolation:
			return http.StatusNotFound, "Not Found"
		}
	}

	return http.StatusInternalServerError, "Internal Server Error"
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	if err := app.writeJSON(w, http.StatusNotFound, envelope{"msg": "Route not found"}, nil); err != nil {
		app.logger.Error(err.Error())
	}
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	// Append a newline to make it easier to view in terminal applications.
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		return err
	}

	return nil
}
