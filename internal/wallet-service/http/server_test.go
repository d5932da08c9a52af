package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/wallet-service/repo"
)

// fakeRepo registra chamadas e devolve respostas fixas.
type fakeRepo struct {
	balance    int64
	reserveErr error
	commits    []string
	refunds    []string
	payouts    []string
}

func (f *fakeRepo) GetOrCreateWallet(ctx context.Context, userID string) (string, int64, error) {
	return "w1", f.balance, nil
}

func (f *fakeRepo) Deposit(ctx context.Context, userID string, amount int64, ref string) (string, int64, error) {
	f.balance += amount
	return "w1", f.balance, nil
}

func (f *fakeRepo) Reserve(ctx context.Context, userID string, amount int64, ref string) (string, error) {
	if f.reserveErr != nil {
		return "", f.reserveErr
	}
	f.balance -= amount
	return "res-1", nil
}

func (f *fakeRepo) Commit(ctx context.Context, userID, ref string) error {
	f.commits = append(f.commits, ref)
	return nil
}

func (f *fakeRepo) Refund(ctx context.Context, userID, ref string) error {
	f.refunds = append(f.refunds, ref)
	return nil
}

func (f *fakeRepo) Payout(ctx context.Context, userID string, amount int64, ref string) (int64, error) {
	f.payouts = append(f.payouts, ref)
	f.balance += amount
	return f.balance, nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetWalletRequiresUser(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeRepo{})
	rec := do(t, srv.Router(), http.MethodGet, "/wallet", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetWalletReturnsBalance(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeRepo{balance: 100000})
	rec := do(t, srv.Router(), http.MethodGet, "/wallet?userId=u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"balance_paise":100000`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestReserveInsufficientFunds(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeRepo{reserveErr: repo.ErrInsufficientFunds})
	rec := do(t, srv.Router(), http.MethodPost, "/wallet/reserve",
		`{"userId":"u1","amount_paise":5000,"external_ref":"t1"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestReserveValidatesPayload(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeRepo{})
	cases := []string{
		`{"amount_paise":5000,"external_ref":"t1"}`,
		`{"userId":"u1","amount_paise":0,"external_ref":"t1"}`,
		`{"userId":"u1","amount_paise":5000}`,
		`not json`,
	}
	for _, body := range cases {
		rec := do(t, srv.Router(), http.MethodPost, "/wallet/reserve", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCommitAndRefund(t *testing.T) {
	f := &fakeRepo{}
	srv := NewServer(zap.NewNop(), f)

	rec := do(t, srv.Router(), http.MethodPost, "/wallet/commit",
		`{"userId":"u1","external_ref":"t1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("commit status = %d", rec.Code)
	}
	rec = do(t, srv.Router(), http.MethodPost, "/wallet/refund",
		`{"userId":"u1","external_ref":"t2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("refund status = %d", rec.Code)
	}
	if len(f.commits) != 1 || f.commits[0] != "t1" {
		t.Errorf("commits = %v", f.commits)
	}
	if len(f.refunds) != 1 || f.refunds[0] != "t2" {
		t.Errorf("refunds = %v", f.refunds)
	}
}

func TestPayoutCreditsBalance(t *testing.T) {
	f := &fakeRepo{balance: 1000}
	srv := NewServer(zap.NewNop(), f)
	rec := do(t, srv.Router(), http.MethodPost, "/wallet/payout",
		`{"userId":"u1","amount_paise":80000,"external_ref":"t1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"balance_paise":81000`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if len(f.payouts) != 1 {
		t.Errorf("payouts = %v", f.payouts)
	}
}
