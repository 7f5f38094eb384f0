package auth

import (
	"net/http"
	"strings"

	"dm-lab/domain"

	"github.com/labstack/echo/v4"
)

// IdentityContextKey is where the middleware stores the verified caller
// identity inside the echo context.
const IdentityContextKey = "identity"

// Middleware protects routes that require a valid session token.
// The caller identity is derived exclusively from the verified token,
// never from client-supplied fields.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 1. Retrieve the Authorization header.
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization token is missing")
			}

			// Expecting the standard "Bearer <token>" format.
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			// 2. Validate the JWT and extract claims.
			claims, err := ValidateToken(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			// 3. Inject the identity for downstream handlers.
			c.Set(IdentityContextKey, &domain.Identity{
				Username: claims.Username,
				Email:    claims.Email,
			})

			return next(c)
		}
	}
}

// IdentityFromContext returns the identity injected by Middleware,
// or nil when the request is unauthenticated.
func IdentityFromContext(c echo.Context) *domain.Identity {
	identity, _ := c.Get(IdentityContextKey).(*domain.Identity)
	return identity
}
