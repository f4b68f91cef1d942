// internal/app/system/auth/auth_test.go
package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"go.uber.org/zap"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T, fetch auth.UserFetcher) *auth.SessionManager {
	t.Helper()
	m, err := auth.NewSessionManager(testSessionKey, "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}
	if fetch != nil {
		m.SetUserFetcher(fetch)
	}
	return m
}

func fetcherFor(users map[string]*models.User) auth.UserFetcher {
	return func(ctx context.Context, id string) (*models.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, store.ErrNotFound
	}
}

// carryCookies copies the Set-Cookie output of one response onto a fresh
// request, simulating a browser's next navigation.
func carryCookies(t *testing.T, rec *httptest.ResponseRecorder, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("Accept", "text/html")
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// loadContext runs a request through LoadSession and captures the final
// request context.
func loadContext(m *auth.SessionManager, req *http.Request) *http.Request {
	var out *http.Request
	h := m.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out = r
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return out
}

func TestSignInUserRoundTrip(t *testing.T) {
	u := &models.User{ID: "u1", Username: "ana", Status: models.StatusApproved}
	m := newManager(t, fetcherFor(map[string]*models.User{"u1": u}))

	rec := httptest.NewRecorder()
	if err := m.SignInUser(rec, httptest.NewRequest("GET", "/", nil), u); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	got := loadContext(m, carryCookies(t, rec, "/dashboard"))
	su, ok := auth.CurrentUser(got)
	if !ok {
		t.Fatal("no user in context after sign-in")
	}
	if su.ID != "u1" || su.Username != "ana" {
		t.Errorf("session user = %+v", su)
	}
	if auth.IsAdmin(got) {
		t.Error("member session should not be admin")
	}
}

func TestAdminSignInClearsMemberSession(t *testing.T) {
	u := &models.User{ID: "u1", Username: "ana", Status: models.StatusApproved}
	m := newManager(t, fetcherFor(map[string]*models.User{"u1": u}))

	// Member signs in first.
	rec1 := httptest.NewRecorder()
	_ = m.SignInUser(rec1, httptest.NewRequest("GET", "/", nil), u)

	// Admin sign-in on the same cookie replaces the member session.
	req2 := carryCookies(t, rec1, "/admin/login")
	rec2 := httptest.NewRecorder()
	if err := m.SignInAdmin(rec2, req2); err != nil {
		t.Fatalf("admin sign in: %v", err)
	}

	got := loadContext(m, carryCookies(t, rec2, "/admin"))
	if !auth.IsAdmin(got) {
		t.Error("admin flag missing")
	}
	if _, ok := auth.CurrentUser(got); ok {
		t.Error("member session survived admin sign-in")
	}
}

func TestSignOutAdminKeepsNothingElse(t *testing.T) {
	m := newManager(t, nil)

	rec1 := httptest.NewRecorder()
	_ = m.SignInAdmin(rec1, httptest.NewRequest("GET", "/", nil))

	req2 := carryCookies(t, rec1, "/admin/logout")
	rec2 := httptest.NewRecorder()
	if err := m.SignOutAdmin(rec2, req2); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	got := loadContext(m, carryCookies(t, rec2, "/"))
	if auth.IsAdmin(got) {
		t.Error("admin flag survived sign-out")
	}
}

func TestLoadSessionDropsNonApprovedMember(t *testing.T) {
	u := &models.User{ID: "u1", Username: "ana", Status: models.StatusApproved}
	users := map[string]*models.User{"u1": u}
	m := newManager(t, fetcherFor(users))

	rec := httptest.NewRecorder()
	_ = m.SignInUser(rec, httptest.NewRequest("GET", "/", nil), u)

	// Suspension takes effect on the next request, not the next login.
	u.Status = models.StatusSuspended
	got := loadContext(m, carryCookies(t, rec, "/dashboard"))
	if _, ok := auth.CurrentUser(got); ok {
		t.Error("suspended member still in context")
	}

	// A deleted account behaves the same.
	u.Status = models.StatusApproved
	delete(users, "u1")
	got = loadContext(m, carryCookies(t, rec, "/dashboard"))
	if _, ok := auth.CurrentUser(got); ok {
		t.Error("deleted member still in context")
	}
}

func TestRequireSignedInRedirectsBrowsers(t *testing.T) {
	m := newManager(t, nil)

	h := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a session")
	}))

	req := httptest.NewRequest("GET", "/dashboard/reports/r1", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("location = %s", loc)
	}
}

func TestRequireSignedInPassesMembers(t *testing.T) {
	m := newManager(t, nil)

	reached := false
	h := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/dashboard", nil),
		&auth.SessionUser{ID: "u1", Username: "ana"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !reached {
		t.Error("signed-in member was blocked")
	}
}

func TestRequireAdmin(t *testing.T) {
	m := newManager(t, nil)

	reached := false
	h := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	// Browser without the admin session is redirected to the admin login.
	req := httptest.NewRequest("GET", "/admin/reports", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Errorf("code = %d location = %s", rec.Code, rec.Header().Get("Location"))
	}
	if reached {
		t.Error("handler reached without admin session")
	}

	// A member session is not enough.
	req = auth.WithTestUser(httptest.NewRequest("GET", "/admin/reports", nil),
		&auth.SessionUser{ID: "u1", Username: "ana"})
	req.Header.Set("Accept", "text/html")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if reached {
		t.Error("member session passed the admin guard")
	}

	// The admin session is.
	req = auth.WithTestAdmin(httptest.NewRequest("GET", "/admin/reports", nil))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !reached {
		t.Error("admin session was blocked")
	}
}

func TestNewSessionManagerRejectsEmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", false, zap.NewNop()); err == nil {
		t.Error("empty session key accepted")
	}
}
