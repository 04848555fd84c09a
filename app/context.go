package main

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey = contextKey("user")

// createUserContext stores the authenticated user id. uuid.Nil marks an anonymous request.
func (app *application) createUserContext(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, userID)
	return r.WithContext(ctx)
}

func (app *application) getUserContext(r *http.Request) uuid.UUID {
	id, ok := r.Context().Value(userContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
