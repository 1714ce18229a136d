package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
)

// Postgres error codes the API maps to client errors.
const (
	CodeInvalidTextRepresentation pq.ErrorCode = "22P02"
	CodeNotNullViolation          pq.ErrorCode = "23502"
	CodeForeignKeyViolation       pq.ErrorCode = "23503"
	CodeUniqueViolation           pq.ErrorCode = "23505"
)

// StatusError is a rejection that already knows the HTTP status and message
// the client should see.
type StatusError struct {
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Msg)
}

func Reject(status int, format string, args ...any) error {
	return xerrors.New(&StatusError{Status: status, Msg: fmt.Sprintf(format, args...)})
}

func NotFound(format string, args ...any) error {
	return Reject(http.StatusNotFound, format, args...)
}

func BadRequest(format string, args ...any) error {
	return Reject(http.StatusBadRequest, format, args...)
}

// PQErrorCode reports the postgres error code carried anywhere in err's chain.
func PQErrorCode(err error) (pq.ErrorCode, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, true
	}
	return "", false
}
