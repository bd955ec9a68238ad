package http

import (
	"context"
	stdhttp "net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	domainAudit "loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/auth"
	"loanapp-backend/internal/testutil/auditmock"
	ucAudit "loanapp-backend/internal/usecase/audit"
)

func newAuditHandler() (*AuditHandler, *auditmock.Repo) {
	entry := domainAudit.NewEntry("cust1", domainAudit.ActionCreate, "loan", LID, map[string]any{"status": "pending"}, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	entry.ID = 7
	repo := &auditmock.Repo{
		ListFn: func(_ context.Context, f domainAudit.Filter) ([]domainAudit.Entry, int64, error) {
			return []domainAudit.Entry{*entry}, 1, nil
		},
		GetByIDFn: func(_ context.Context, id uint64) (*domainAudit.Entry, error) {
			if id != 7 {
				return nil, gorm.ErrRecordNotFound
			}
			return entry, nil
		},
	}
	return NewAuditHandler(ucAudit.NewUsecase(repo), nil), repo
}

func TestAuditList(t *testing.T) {
	e := newEchoWithValidator()
	h, repo := newAuditHandler()
	var got domainAudit.Filter
	inner := repo.ListFn
	repo.ListFn = func(ctx context.Context, f domainAudit.Filter) ([]domainAudit.Entry, int64, error) {
		got = f
		return inner(ctx, f)
	}

	tests := []struct {
		name      string
		a         auth.Actor
		query     string
		want      int
		wantActor string
	}{
		{"staff by user", banker, "?userId=cust2&collection=loan&action=create", stdhttp.StatusOK, "cust2"},
		{"customer own only", customer, "?userId=cust2", stdhttp.StatusOK, "cust1"},
		{"bad limit", banker, "?limit=ten", stdhttp.StatusBadRequest, ""},
		{"bad date", banker, "?startDate=03/01/2026", stdhttp.StatusBadRequest, ""},
		{"bad action", banker, "?action=merge", stdhttp.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, e, h.List, stdhttp.MethodGet, "/api/audit-logs"+tt.query, nil, &tt.a, nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want != stdhttp.StatusOK {
				return
			}
			if got.ActorID != tt.wantActor {
				t.Fatalf("actor filter = %q, want %q", got.ActorID, tt.wantActor)
			}
			var page struct {
				Logs []struct {
					ID             uint64         `json:"id"`
					CollectionName string         `json:"collectionName"`
					Changes        map[string]any `json:"changes"`
				} `json:"logs"`
				Total int64 `json:"total"`
			}
			decode(t, rec, &page)
			if page.Total != 1 || len(page.Logs) != 1 || page.Logs[0].Changes["status"] != "pending" {
				t.Fatalf("page = %+v", page)
			}
		})
	}
}

func TestAuditGet(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newAuditHandler()
	other := auth.Actor{ID: "cust2", Role: auth.RoleCustomer}

	tests := []struct {
		name string
		a    auth.Actor
		id   string
		want int
	}{
		{"owner", customer, "7", stdhttp.StatusOK},
		{"staff", banker, "7", stdhttp.StatusOK},
		{"other customer", other, "7", stdhttp.StatusForbidden},
		{"missing", banker, "8", stdhttp.StatusNotFound},
		{"not a number", banker, "abc", stdhttp.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, e, h.Get, stdhttp.MethodGet, "/api/audit-logs/"+tt.id, nil, &tt.a, map[string]string{"id": tt.id})
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
