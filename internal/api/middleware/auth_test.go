package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-api/internal/core/domain"
)

type stubAuthenticator struct {
	authenticateFn func(ctx context.Context, credential string) (*domain.User, error)
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, credential string) (*domain.User, error) {
	return s.authenticateFn(ctx, credential)
}

func runAuth(t *testing.T, auth *stubAuthenticator, header string) (called bool, user *domain.User, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	h := Auth(auth)(func(c echo.Context) error {
		called = true
		user, _ = c.Get("user").(*domain.User)
		return nil
	})
	err = h(c)
	return called, user, err
}

func TestAuthMiddleware_ValidCredential(t *testing.T) {
	auth := &stubAuthenticator{
		authenticateFn: func(_ context.Context, credential string) (*domain.User, error) {
			if credential != "1.2.key" {
				t.Fatalf("credential not passed verbatim: %q", credential)
			}
			return &domain.User{ID: 1, Email: "a@x.com"}, nil
		},
	}

	called, user, err := runAuth(t, auth, "1.2.key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || user == nil || user.ID != 1 {
		t.Fatalf("next not called with user: called=%v user=%+v", called, user)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	auth := &stubAuthenticator{
		authenticateFn: func(context.Context, string) (*domain.User, error) {
			t.Fatal("authenticator should not be called")
			return nil, nil
		},
	}

	called, _, err := runAuth(t, auth, "")
	if called || !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got called=%v err=%v", called, err)
	}
}

func TestAuthMiddleware_BearerPrefixIsNotStripped(t *testing.T) {
	var got string
	auth := &stubAuthenticator{
		authenticateFn: func(_ context.Context, credential string) (*domain.User, error) {
			got = credential
			return nil, domain.ErrUnauthenticated
		},
	}

	_, _, err := runAuth(t, auth, "Bearer 1.2.key")
	if got != "Bearer 1.2.key" || !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("got credential %q err %v", got, err)
	}
}

func TestAuthMiddleware_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	auth := &stubAuthenticator{
		authenticateFn: func(context.Context, string) (*domain.User, error) { return nil, boom },
	}

	called, _, err := runAuth(t, auth, "1.2.key")
	if called || !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got called=%v err=%v", called, err)
	}
}
