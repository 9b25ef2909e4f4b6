// Package middleware holds the cross-cutting HTTP concerns: authentication,
// request logging, and metrics.
package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"meetsync/pkg/auth"
	"meetsync/pkg/common"
	pkgerrors "meetsync/pkg/errors"
)

// Authenticator validates the bearer token and injects the principal into
// the request context. Requests without a valid token never reach the
// handler.
func Authenticator(tokens *auth.JWTService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.ValidateToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Debug("rejected unauthenticated request",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				common.RespondAppError(w, pkgerrors.NewUnauthorizedError("authentication required"))
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				common.RespondAppError(w, pkgerrors.NewUnauthorizedError("authentication required"))
				return
			}

			ctx := auth.WithUser(r.Context(), auth.UserContext{
				UserID: userID,
				Name:   claims.Name,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
