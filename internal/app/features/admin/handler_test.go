// internal/app/features/admin/handler_test.go
package admin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	adminfeature "github.com/edsonjmoreira/bi-portal/internal/app/features/admin"
	uierrors "github.com/edsonjmoreira/bi-portal/internal/app/features/errors"
	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/access"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/reportreg"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/edsonjmoreira/bi-portal/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "open-sesame"

func newTestHandler(t *testing.T) (*adminfeature.Handler, store.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	logger := zap.NewNop()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	engine := access.New(st.Users(), string(hash), logger)
	registry := reportreg.New(st.Reports(), st.Users(), logger)

	sessionMgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	return adminfeature.NewHandler(st, engine, registry, sessionMgr, uierrors.NewErrorLogger(logger), logger), st
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return auth.WithTestAdmin(req)
}

// render may panic in tests because the template engine is not booted;
// the handler logic before the render is what is under test.
func serve(h http.HandlerFunc, rec *httptest.ResponseRecorder, req *http.Request) {
	defer func() { _ = recover() }()
	h(rec, req)
}

func TestAdminLoginCorrectPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	form := url.Values{"password": {adminPassword}}
	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.HandleLoginPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	if rec.Header().Get("Location") != "/admin/reports" {
		t.Errorf("location = %s", rec.Header().Get("Location"))
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set")
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	form := url.Values{"password": {"wrong"}}
	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	serve(h.HandleLoginPost, rec, req)

	if rec.Code == http.StatusSeeOther {
		t.Error("wrong password produced a redirect")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("session cookie set for wrong password")
	}
}

func TestPublishPostCreatesReport(t *testing.T) {
	h, st := newTestHandler(t)

	form := url.Values{
		"title": {"Sales Q3"},
		"embed": {`<iframe src="https://example.com/r1"></iframe>`},
	}
	rec := httptest.NewRecorder()
	h.HandlePublishPost(rec, postForm("/admin/reports", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	reports, _ := st.Reports().List(context.Background())
	if len(reports) != 1 || reports[0].Src != "https://example.com/r1" {
		t.Errorf("reports = %+v", reports)
	}
}

func TestPublishPostBadInputCreatesNothing(t *testing.T) {
	h, st := newTestHandler(t)

	form := url.Values{"title": {"Broken"}, "embed": {"not-a-url"}}
	rec := httptest.NewRecorder()
	serve(h.HandlePublishPost, rec, postForm("/admin/reports", form))

	if rec.Code == http.StatusSeeOther {
		t.Error("bad embed input produced a redirect")
	}
	reports, _ := st.Reports().List(context.Background())
	if len(reports) != 0 {
		t.Errorf("reports = %+v, want none", reports)
	}
}

func TestVisibilityPostTogglesFlag(t *testing.T) {
	h, st := newTestHandler(t)
	ctx := context.Background()
	r := testutil.NewFixtures(t, st).CreateReport(ctx, "Sales", "https://example.com/r1", true)

	form := url.Values{"visible": {"false"}}
	req := testutil.WithChiURLParam(postForm("/admin/reports/"+r.ID+"/visibility", form), "reportID", r.ID)
	rec := httptest.NewRecorder()
	h.HandleVisibilityPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	got, _ := st.Reports().GetByID(ctx, r.ID)
	if got.IsVisible {
		t.Error("report still visible")
	}
}

func TestReportDeletePostCascades(t *testing.T) {
	h, st := newTestHandler(t)
	ctx := context.Background()
	fx := testutil.NewFixtures(t, st)

	u := fx.CreateUser(ctx, "ana", "pw", models.StatusApproved)
	r := fx.CreateReport(ctx, "Doomed", "https://example.com/r1", true)
	fx.Grant(ctx, u.ID, r.ID)

	req := testutil.WithChiURLParam(postForm("/admin/reports/"+r.ID+"/delete", url.Values{}), "reportID", r.ID)
	rec := httptest.NewRecorder()
	h.HandleReportDeletePost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.HasGrant(r.ID) {
		t.Error("grant survived report deletion")
	}
}

func TestStatusPost(t *testing.T) {
	h, st := newTestHandler(t)
	ctx := context.Background()
	u := testutil.NewFixtures(t, st).CreateUser(ctx, "ana", "pw", models.StatusPending)

	form := url.Values{"status": {models.StatusApproved}}
	req := testutil.WithChiURLParam(postForm("/admin/users/"+u.ID+"/status", form), "userID", u.ID)
	rec := httptest.NewRecorder()
	h.HandleStatusPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.Status != models.StatusApproved {
		t.Errorf("status = %s", got.Status)
	}
}

func TestStatusPostRejectsUnknownValue(t *testing.T) {
	h, st := newTestHandler(t)
	ctx := context.Background()
	u := testutil.NewFixtures(t, st).CreateUser(ctx, "ana", "pw", models.StatusPending)

	form := url.Values{"status": {"BANNED"}}
	req := testutil.WithChiURLParam(postForm("/admin/users/"+u.ID+"/status", form), "userID", u.ID)
	rec := httptest.NewRecorder()
	serve(h.HandleStatusPost, rec, req)

	if rec.Code == http.StatusSeeOther {
		t.Error("unknown status produced a redirect")
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.Status != models.StatusPending {
		t.Errorf("status changed to %s", got.Status)
	}
}

func TestUserDeletePost(t *testing.T) {
	h, st := newTestHandler(t)
	ctx := context.Background()
	u := testutil.NewFixtures(t, st).CreateUser(ctx, "ana", "pw", models.StatusApproved)

	req := testutil.WithChiURLParam(postForm("/admin/users/"+u.ID+"/delete", url.Values{}), "userID", u.ID)
	rec := httptest.NewRecorder()
	h.HandleUserDeletePost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	if _, err := st.Users().GetByID(ctx, u.ID); err == nil {
		t.Error("user still present after delete")
	}
}

func TestGrantsPostReconcilesSet(t *testing.T) {
	h, st := newTestHandler(t)
	ctx := context.Background()
	fx := testutil.NewFixtures(t, st)

	u := fx.CreateUser(ctx, "ana", "pw", models.StatusApproved)
	r1 := fx.CreateReport(ctx, "One", "https://example.com/r1", true)
	r2 := fx.CreateReport(ctx, "Two", "https://example.com/r2", true)
	fx.Grant(ctx, u.ID, r1.ID)

	// Check r2, uncheck r1.
	form := url.Values{"grants": {r2.ID}}
	req := testutil.WithChiURLParam(postForm("/admin/users/"+u.ID+"/grants", form), "userID", u.ID)
	rec := httptest.NewRecorder()
	h.HandleGrantsPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303", rec.Code)
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.HasGrant(r1.ID) {
		t.Error("unchecked grant was kept")
	}
	if !got.HasGrant(r2.ID) {
		t.Error("checked grant was not added")
	}
}
