package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func day(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2026-08-29")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFetchPublishedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("houseId"); got != "1" {
			t.Errorf("houseId = %s", got)
		}
		if got := r.URL.Query().Get("roundType"); got != "FR" {
			t.Errorf("roundType = %s", got)
		}
		if got := r.URL.Query().Get("date"); got != "2026-08-29" {
			t.Errorf("date = %s", got)
		}
		w.Write([]byte(`{"number":41,"published":true,"source":"shillong-official"}`))
	}))
	defer srv.Close()

	n, source, err := New(srv.URL).Fetch(context.Background(), 1, "FR", day(t))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if n != 41 || source != "shillong-official" {
		t.Errorf("got %d/%s", n, source)
	}
}

func TestFetchNotReady(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"404", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"not published", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"published":false}`))
		}},
		{"null number", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"number":null,"published":true}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, _, err := New(srv.URL).Fetch(context.Background(), 1, "FR", day(t))
			if !errors.Is(err, ErrNotReady) {
				t.Errorf("err = %v, want ErrNotReady", err)
			}
		})
	}
}

func TestFetchRejectsOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number":150,"published":true}`))
	}))
	defer srv.Close()

	_, _, err := New(srv.URL).Fetch(context.Background(), 1, "SR", day(t))
	if err == nil || errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want range error", err)
	}
}

func TestFetchDefaultsSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number":7,"published":true}`))
	}))
	defer srv.Close()

	_, source, err := New(srv.URL).Fetch(context.Background(), 1, "SR", day(t))
	if err != nil {
		t.Fatal(err)
	}
	if source != "feed" {
		t.Errorf("source = %q, want \"feed\"", source)
	}
}
