// internal/app/features/home/handler_test.go
package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	homefeature "github.com/edsonjmoreira/bi-portal/internal/app/features/home"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *homefeature.Handler {
	t.Helper()
	st := testutil.SetupTestStore(t)
	return homefeature.NewHandler(st.Theme(), zap.NewNop())
}

func TestServeRootSignedInRedirects(t *testing.T) {
	h := newTestHandler(t)

	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: "u1", Username: "ana"})
	rec := httptest.NewRecorder()
	h.ServeRoot(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("code = %d location = %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestServeRootAnonymous(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	// The render may panic without a booted template engine.
	func() {
		defer func() { _ = recover() }()
		h.ServeRoot(rec, httptest.NewRequest("GET", "/", nil))
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("anonymous visitor was redirected")
	}
}
