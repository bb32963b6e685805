package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-api/internal/api/handler"
	"github.com/99minutos/notes-api/internal/api/metrics"
	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

// Auth resolves the Authorization header through auth and injects the user
// into the context. The header value is the raw "<user>.<session>.<key>"
// credential, used verbatim.
func Auth(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := c.Request().Header.Get(echo.HeaderAuthorization)
			if credential == "" {
				metrics.AuthFailuresTotal.Inc()
				return domain.ErrUnauthenticated
			}

			user, err := auth.Authenticate(c.Request().Context(), credential)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.AuthFailuresTotal.Inc()
				}
				return err
			}

			handler.SetUser(c, user)
			return next(c)
		}
	}
}
