package web

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api", nil)
	assert.Equal(t, "", RequestID(r.Context()))

	r = SetRequestID(r, "abc-123")
	assert.Equal(t, "abc-123", RequestID(r.Context()))
}

func TestGetValueFromContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextKey("n"), 42)

	_, ok := GetValueFromContext[string](ctx, "n")
	assert.False(t, ok)

	n, ok := GetValueFromContext[int](ctx, "n")
	assert.True(t, ok)
	assert.Equal(t, 42, n)
}
