package web

import (
	"context"
	"net/http"
)

const (
	RequestIDHeader            = "X-Request-Id"
	requestIDCtxKey contextKey = "request_id"
)

func SetRequestID(r *http.Request, id string) *http.Request {
	return AddValueToContext(r, requestIDCtxKey, id)
}

// RequestID returns the id assigned to the current request, or "" outside one.
func RequestID(ctx context.Context) string {
	id, _ := GetValueFromContext[string](ctx, requestIDCtxKey)
	return id
}
