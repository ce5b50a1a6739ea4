package v1

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/auth"
	"github.com/adanyl0v/taskflow/internal/metrics"
	"github.com/adanyl0v/taskflow/internal/services"
)

// HandleAuthMiddleware admits a request only if it carries a valid token
// whose username still resolves to a user, and attaches that user's
// identity to the request context.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		h.logger.Debug().
			Str("route", c.FullPath()).
			Msg("no token provided")
		h.metrics.RecordAuthRejection(metrics.ReasonMissingToken)
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	claims, err := h.tokens.Verify(token)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to verify token")
		h.metrics.RecordAuthRejection(metrics.ReasonInvalidToken)
		abort(c, newForbiddenError(msgForbidden))
		return
	}

	user, err := h.users.GetUserByUsername(c.Request.Context(), claims.Username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.logger.Warn().
				Str("username", claims.Username).
				Msg("token subject no longer exists")
			h.metrics.RecordAuthRejection(metrics.ReasonUnknownUser)
			abort(c, newBadRequestError(msgInvalidToken))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to resolve token subject")
		abort(c, newInternalError(err))
		return
	}

	ctx := auth.WithIdentity(c.Request.Context(), auth.Identity{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	})
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// extractToken prefers the cookie over the Authorization header.
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(tokenCookie); err == nil && token != "" {
		return token
	}

	const bearerScheme = "Bearer"
	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

func identityFrom(c *gin.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFrom(c.Request.Context())
	if !ok {
		return auth.Identity{}, newUnauthorizedError(msgUnauthorized)
	}
	return identity, nil
}
