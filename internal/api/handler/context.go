package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-api/internal/core/domain"
)

const userContextKey = "user"

// SetUser stores the authenticated user on the request context. It is
// called by the auth middleware.
func SetUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}

// ctxUser returns the user injected by the auth middleware. A missing user
// means the route was mounted without the middleware, and is treated as
// unauthenticated.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get(userContextKey).(*domain.User)
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}
