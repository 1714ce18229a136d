package core

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/stretchr/testify/assert"
)

func TestEveryEntityHasExistenceQuery(t *testing.T) {
	for _, entity := range []Entity{EntityTopic, EntityUser, EntityArticle, EntityComment} {
		query, ok := existsQueries[entity]
		assert.True(t, ok, entity.String())
		assert.Contains(t, query, "$1")
	}
}

func TestOnlyArticlesAndCommentsHaveVotes(t *testing.T) {
	assert.Len(t, voteQueries, 2)
	assert.Contains(t, voteQueries, EntityArticle)
	assert.Contains(t, voteQueries, EntityComment)
}

func TestEntityString(t *testing.T) {
	assert.Equal(t, "topic", EntityTopic.String())
	assert.Equal(t, "comment", EntityComment.String())
	assert.Equal(t, "unknown", Entity(42).String())
}

func TestIsAbsent(t *testing.T) {
	empty := ""
	slug := "cats"

	assert.True(t, isAbsent(nil))
	assert.True(t, isAbsent(""))
	assert.True(t, isAbsent((*string)(nil)))
	assert.True(t, isAbsent(&empty))
	assert.False(t, isAbsent(&slug))
	assert.False(t, isAbsent("cats"))
	assert.False(t, isAbsent(int64(0)))
}

func TestRejections(t *testing.T) {
	assertStatus(t, NotFound("Not Found: %v", "nonexistent"), http.StatusNotFound, "Not Found: nonexistent")
	assertStatus(t, BadRequest("Bad Request: %s", "limit"), http.StatusBadRequest, "Bad Request: limit")

	wrapped := xerrors.New(NotFound("Not Found: %d", 99))
	assertStatus(t, wrapped, http.StatusNotFound, "Not Found: 99")
}

func TestPQErrorCode(t *testing.T) {
	code, ok := PQErrorCode(xerrors.New(&pq.Error{Code: CodeUniqueViolation}))
	assert.True(t, ok)
	assert.Equal(t, CodeUniqueViolation, code)

	_, ok = PQErrorCode(errors.New("boom"))
	assert.False(t, ok)
}
