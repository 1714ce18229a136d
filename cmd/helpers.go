package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/core"
	"github.com/siahsang/ncnews/internal/validator"
)

type envelope map[string]any

// readJSON decodes a single JSON value from the body into dst. Every decoding
// failure is a 400; the detail stays in the wrapped error for the logs.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBytes = 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var (
			syntaxError        *json.SyntaxError
			unmarshalTypeError *json.UnmarshalTypeError
			maxBytesError      *http.MaxBytesError
		)

		badRequest := core.BadRequest("Bad Request")

		switch {
		case errors.As(err, &syntaxError):
			return xerrors.Newf("body contains badly-formed JSON at (character %d): %w", syntaxError.Offset, badRequest)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return xerrors.Newf("body contains badly-formed JSON: %w", badRequest)
		case errors.As(err, &unmarshalTypeError):
			return xerrors.Newf("body contains incorrect JSON type for field %q: %w", unmarshalTypeError.Field, badRequest)
		case errors.Is(err, io.EOF):
			return xerrors.Newf("body must not be empty: %w", badRequest)
		case errors.As(err, &maxBytesError):
			return xerrors.Newf("body must not be larger than %d bytes: %w", maxBytes, badRequest)
		default:
			return xerrors.Newf("error decoding JSON: %v: %w", err, badRequest)
		}
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return xerrors.Newf("body must contain only a single JSON value: %w", core.BadRequest("Bad Request"))
	}

	return nil
}

// readIDParam parses a numeric path parameter; anything else is a 400.
func readIDParam(r *http.Request, name string) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.ParseInt(params.ByName(name), 10, 64)
	if err != nil {
		return 0, xerrors.Newf("invalid %s %q: %w", name, params.ByName(name), core.BadRequest("Bad Request"))
	}
	return id, nil
}

// validationError turns failed field checks into a generic 400.
func validationError(v *validator.Validator) error {
	return xerrors.Newf("invalid fields %v: %w", v.Fields(), core.BadRequest("Bad Request"))
}
