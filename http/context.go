package http

import (
	"context"

	"yatube/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// setUserInContext stores the authenticated user in the request context.
func setUserInContext(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// getUserFromContext returns the authenticated user from the request
// context, or nil for an anonymous viewer.
func getUserFromContext(ctx context.Context) *domain.User {
	if temp := ctx.Value(userContextKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
