package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radieske/teer-platform-poc/internal/engine/selection"
	"github.com/radieske/teer-platform-poc/internal/engine/teer"
	"github.com/radieske/teer-platform-poc/internal/engine/ticket/dto"
)

type fakePoster struct {
	calls   int
	lastRef string
	res     dto.TicketResponse
	err     error
	block   chan struct{} // quando não-nulo, segura a chamada
}

func (f *fakePoster) PlaceTicket(ctx context.Context, p dto.TicketPayload) (dto.TicketResponse, error) {
	f.calls++
	f.lastRef = p.ClientRef
	if f.block != nil {
		<-f.block
	}
	return f.res, f.err
}

type fakeBalance struct {
	paise int64
	err   error
}

func (f *fakeBalance) Balance(ctx context.Context, userID string) (int64, error) {
	return f.paise, f.err
}

func openRound(id int64) *teer.Round {
	return &teer.Round{ID: id, HouseID: 7, Type: teer.PlayFR, BettingClosesAt: time.Now().Add(time.Hour)}
}

func closedRound(id int64) *teer.Round {
	return &teer.Round{ID: id, HouseID: 7, Type: teer.PlayFR, BettingClosesAt: time.Now().Add(-time.Second)}
}

func frSelections(t *testing.T, amounts map[string]int64) *Selections {
	t.Helper()
	s := selection.NewSet()
	for num, amt := range amounts {
		if err := s.Add(selection.Entry{Key: num, Number: num, AmountPaise: amt}); err != nil {
			t.Fatal(err)
		}
	}
	return &Selections{FRDirect: s}
}

func TestSubmitInsufficientBalanceSkipsNetwork(t *testing.T) {
	// saldo 10, total 30 -> FAILED local, endpoint nunca chamado
	post := &fakePoster{}
	sub := NewSubmitter(nil, post, &fakeBalance{paise: 10})

	sel := frSelections(t, map[string]int64{"05": 10, "23": 20})
	_, err := sub.Submit(context.Background(), SubmitRequest{
		UserID:       "user-1",
		House:        &teer.House{ID: 7},
		FRRound:      openRound(100),
		Selections:   sel,
		BalancePaise: 10,
		Now:          time.Now(),
	})

	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if post.calls != 0 {
		t.Error("submission endpoint must not be invoked")
	}
	if sel.TotalAmount() != 30 {
		t.Error("failed submission must preserve the selection")
	}
	if sub.State() != StateIdle {
		t.Errorf("state = %s, want IDLE", sub.State())
	}
}

func TestSubmitClosedRoundSkipsNetwork(t *testing.T) {
	post := &fakePoster{}
	sub := NewSubmitter(nil, post, &fakeBalance{paise: 1000})

	sel := frSelections(t, map[string]int64{"05": 10})
	_, err := sub.Submit(context.Background(), SubmitRequest{
		UserID:       "user-1",
		House:        &teer.House{ID: 7},
		FRRound:      closedRound(100),
		Selections:   sel,
		BalancePaise: 1000,
		Now:          time.Now(),
	})

	if !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("err = %v, want ErrRoundClosed", err)
	}
	if post.calls != 0 {
		t.Error("no network call for a closed round")
	}
}

func TestSubmitMissingRoundIsClosed(t *testing.T) {
	sub := NewSubmitter(nil, &fakePoster{}, nil)
	sel := frSelections(t, map[string]int64{"05": 10})
	_, err := sub.Submit(context.Background(), SubmitRequest{
		UserID:       "user-1",
		House:        &teer.House{ID: 7},
		FRRound:      nil, // round indisponível conta como fechado
		Selections:   sel,
		BalancePaise: 1000,
		Now:          time.Now(),
	})
	if !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("err = %v, want ErrRoundClosed", err)
	}
}

func TestSubmitSuccessClearsSelectionAndRefreshesBalance(t *testing.T) {
	post := &fakePoster{res: dto.TicketResponse{
		TicketID:                  "TKT1",
		Status:                    "PENDING",
		TotalAmountPaise:          30,
		TotalPotentialPayoutPaise: 1600,
	}}
	sub := NewSubmitter(nil, post, &fakeBalance{paise: 970})

	sel := frSelections(t, map[string]int64{"05": 10, "23": 20})
	out, err := sub.Submit(context.Background(), SubmitRequest{
		UserID:       "user-1",
		House:        &teer.House{ID: 7},
		FRRound:      openRound(100),
		Selections:   sel,
		BalancePaise: 1000,
		Now:          time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.TicketID != "TKT1" || out.TotalAmountPaise != 30 || out.TotalPotentialPayoutPaise != 1600 {
		t.Errorf("outcome = %+v", out)
	}
	if out.NewBalancePaise != 970 {
		t.Errorf("NewBalancePaise = %d, want refreshed 970", out.NewBalancePaise)
	}
	if sel.TotalAmount() != 0 {
		t.Error("success must clear the selection")
	}
	if sub.State() != StateIdle {
		t.Errorf("state = %s, want IDLE", sub.State())
	}
}

func TestSubmitFailurePreservesSelectionAndClientRef(t *testing.T) {
	post := &fakePoster{err: errors.New("boom")}
	sub := NewSubmitter(nil, post, nil)

	sel := frSelections(t, map[string]int64{"05": 10})
	req := SubmitRequest{
		UserID:       "user-1",
		House:        &teer.House{ID: 7},
		FRRound:      openRound(100),
		Selections:   sel,
		BalancePaise: 1000,
		Now:          time.Now(),
	}

	_, err := sub.Submit(context.Background(), req)
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *SubmissionError", err)
	}
	if sel.TotalAmount() != 10 {
		t.Error("failed submission must preserve the selection")
	}
	firstRef := post.lastRef

	// retry explícito do mesmo ticket reusa o clientRef
	post.err = nil
	post.res = dto.TicketResponse{TicketID: "TKT2"}
	if _, err := sub.Submit(context.Background(), req); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if post.lastRef != firstRef {
		t.Errorf("retry clientRef = %q, want %q (kept across retries)", post.lastRef, firstRef)
	}

	// novo ticket após sucesso ganha ref novo
	sel2 := frSelections(t, map[string]int64{"42": 5})
	req.Selections = sel2
	if _, err := sub.Submit(context.Background(), req); err != nil {
		t.Fatalf("third submit failed: %v", err)
	}
	if post.lastRef == firstRef {
		t.Error("new ticket must get a fresh clientRef")
	}
}

func TestSubmitRejectsConcurrentAttempts(t *testing.T) {
	post := &fakePoster{block: make(chan struct{})}
	sub := NewSubmitter(nil, post, nil)

	req := SubmitRequest{
		UserID:       "user-1",
		House:        &teer.House{ID: 7},
		FRRound:      openRound(100),
		Selections:   frSelections(t, map[string]int64{"05": 10}),
		BalancePaise: 1000,
		Now:          time.Now(),
	}

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := sub.Submit(context.Background(), req)
		done <- err
	}()
	<-started

	// espera a primeira chamada chegar ao poster
	deadline := time.After(time.Second)
	for sub.State() != StateSubmitting {
		select {
		case <-deadline:
			t.Fatal("first submission never reached SUBMITTING")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := sub.Submit(context.Background(), req)
	if !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("concurrent submit err = %v, want ErrSubmitInFlight", err)
	}

	close(post.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
}

func TestSubmitEmptyTicket(t *testing.T) {
	sub := NewSubmitter(nil, &fakePoster{}, nil)
	_, err := sub.Submit(context.Background(), SubmitRequest{
		UserID:       "user-1",
		House:        &teer.House{ID: 7},
		Selections:   &Selections{},
		BalancePaise: 1000,
		Now:          time.Now(),
	})
	if !errors.Is(err, ErrEmptyTicket) {
		t.Errorf("err = %v, want ErrEmptyTicket", err)
	}
}
