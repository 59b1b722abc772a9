package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/identity"
	"github.com/campusmart/campusmart-backend/pkg/logger"
)

type stubVerifier struct {
	token string
	ident identity.Identity
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if token != s.token {
		return nil, errors.New("token signature invalid")
	}
	ident := s.ident
	return &ident, nil
}

type stubProvisioner struct {
	user *models.User
	err  error
}

func (s *stubProvisioner) EnsureUser(_ context.Context, _ identity.Identity) (*models.User, error) {
	return s.user, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedHandler(captured **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = CurrentUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	var seen *models.User
	mw := Auth(&stubVerifier{token: "good"}, &stubProvisioner{}, testLogger())

	rec := httptest.NewRecorder()
	mw(authedHandler(&seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if seen != nil {
		t.Fatal("handler must not run without credentials")
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	var seen *models.User
	mw := Auth(&stubVerifier{token: "good"}, &stubProvisioner{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	mw(authedHandler(&seen)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if seen != nil {
		t.Fatal("handler must not run with a bad token")
	}
}

func TestAuthRejectsBlockedUser(t *testing.T) {
	var seen *models.User
	user := &models.User{ID: uuid.New(), Email: "blocked@campus.edu", IsBlocked: true}
	mw := Auth(
		&stubVerifier{token: "good", ident: identity.Identity{SubjectID: user.ID, Email: user.Email}},
		&stubProvisioner{user: user},
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	mw(authedHandler(&seen)).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a blocked account, got %d", rec.Code)
	}
	if seen != nil {
		t.Fatal("handler must not run for a blocked account")
	}
}

func TestAuthSeedsCurrentUser(t *testing.T) {
	var seen *models.User
	user := &models.User{ID: uuid.New(), Email: "buyer@campus.edu"}
	mw := Auth(
		&stubVerifier{token: "good", ident: identity.Identity{SubjectID: user.ID, Email: user.Email}},
		&stubProvisioner{user: user},
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	mw(authedHandler(&seen)).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen == nil || seen.ID != user.ID {
		t.Fatalf("expected current user %s in context, got %+v", user.ID, seen)
	}
}

func TestRequireAdmin(t *testing.T) {
	mw := RequireAdmin(testLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a user, got %d", rec.Code)
	}

	member := &models.User{ID: uuid.New()}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), member))
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin, got %d", rec.Code)
	}

	admin := &models.User{ID: uuid.New(), IsAdmin: true}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), admin))
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected admin to pass, got %d", rec.Code)
	}
}
