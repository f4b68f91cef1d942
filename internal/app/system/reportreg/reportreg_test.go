// internal/app/system/reportreg/reportreg_test.go
package reportreg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/reportreg"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/edsonjmoreira/bi-portal/internal/testutil"
	"go.uber.org/zap"
)

func newRegistry(t *testing.T) (*reportreg.Registry, store.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	return reportreg.New(st.Reports(), st.Users(), zap.NewNop()), st
}

func TestPublishFromIframe(t *testing.T) {
	reg, st := newRegistry(t)
	ctx := context.Background()

	r, err := reg.Publish(ctx, "Sales Q3", `<iframe src="https://example.com/r1"></iframe>`)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if r.Src != "https://example.com/r1" {
		t.Errorf("src = %q", r.Src)
	}
	if !r.IsVisible {
		t.Error("new report should start visible")
	}

	stored, err := st.Reports().GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != "Sales Q3" {
		t.Errorf("title = %q", stored.Title)
	}
}

func TestPublishFromBareLink(t *testing.T) {
	reg, _ := newRegistry(t)

	r, err := reg.Publish(context.Background(), "Sales", "https://example.com/r2")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if r.Src != "https://example.com/r2" {
		t.Errorf("src = %q", r.Src)
	}
}

func TestPublishRejectsBlankTitle(t *testing.T) {
	reg, st := newRegistry(t)
	ctx := context.Background()

	if _, err := reg.Publish(ctx, "   ", "https://example.com/r"); !errors.Is(err, reportreg.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
	assertNoReports(t, st)
}

func TestPublishParseFailureCreatesNothing(t *testing.T) {
	reg, st := newRegistry(t)
	ctx := context.Background()

	if _, err := reg.Publish(ctx, "Broken", "not-a-url"); !errors.Is(err, reportreg.ErrUnrecognizedInput) {
		t.Errorf("err = %v, want ErrUnrecognizedInput", err)
	}
	if _, err := reg.Publish(ctx, "Broken", `<iframe></iframe>`); !errors.Is(err, reportreg.ErrMissingSrc) {
		t.Errorf("err = %v, want ErrMissingSrc", err)
	}
	assertNoReports(t, st)
}

func TestDeleteCascadesGrants(t *testing.T) {
	reg, st := newRegistry(t)
	ctx := context.Background()
	fx := testutil.NewFixtures(t, st)

	u := fx.CreateUser(ctx, "ana", "pw", models.StatusApproved)
	doomed, _ := reg.Publish(ctx, "Doomed", "https://example.com/r1")
	kept, _ := reg.Publish(ctx, "Kept", "https://example.com/r2")
	fx.Grant(ctx, u.ID, doomed.ID)
	fx.Grant(ctx, u.ID, kept.ID)

	if err := reg.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.HasGrant(doomed.ID) {
		t.Error("grant to deleted report survived")
	}
	if !got.HasGrant(kept.ID) {
		t.Error("unrelated grant was pruned")
	}
}

func TestSetGrantIdempotent(t *testing.T) {
	reg, st := newRegistry(t)
	ctx := context.Background()
	fx := testutil.NewFixtures(t, st)

	u := fx.CreateUser(ctx, "ana", "pw", models.StatusApproved)
	r, _ := reg.Publish(ctx, "Sales", "https://example.com/r1")

	for i := 0; i < 2; i++ {
		if err := reg.SetGrant(ctx, u.ID, r.ID, true); err != nil {
			t.Fatalf("grant: %v", err)
		}
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if len(got.VisibleReportIDs) != 1 {
		t.Errorf("grants = %v, want one entry", got.VisibleReportIDs)
	}
}

func TestSetVisibility(t *testing.T) {
	reg, st := newRegistry(t)
	ctx := context.Background()

	r, _ := reg.Publish(ctx, "Sales", "https://example.com/r1")
	if err := reg.SetVisibility(ctx, r.ID, false); err != nil {
		t.Fatalf("hide: %v", err)
	}
	got, _ := st.Reports().GetByID(ctx, r.ID)
	if got.IsVisible {
		t.Error("report still visible")
	}
}

func assertNoReports(t *testing.T, st store.Store) {
	t.Helper()
	reports, err := st.Reports().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("reports = %d, want none", len(reports))
	}
}
