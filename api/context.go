package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-admin/services"
)

type keyType string

const (
	userIDKey keyType = "userID"
)

// anonymousActor is recorded when authentication is disabled
const anonymousActor = "anonymous"

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the user ID stored by the auth middleware
func ctxGetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// requestContext lifts the request-scoped values the service needs into an explicit struct
func requestContext(r *http.Request) services.RequestContext {
	actor, ok := ctxGetUserID(r.Context())
	if !ok {
		actor = anonymousActor
	}
	return services.RequestContext{
		Actor:     actor,
		RequestID: middleware.GetReqID(r.Context()),
	}
}
