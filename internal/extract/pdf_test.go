package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFromURLCorruptDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("this is not a pdf"))
	}))
	defer srv.Close()

	e := New(5*time.Second, 500)
	if _, err := e.FromURL(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestFromURLBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	e := New(5*time.Second, 500)
	if _, err := e.FromURL(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFallbackFormat(t *testing.T) {
	got := Fallback("Attention Is All You Need", "The dominant models are recurrent.")
	want := "Attention Is All You Need\n\nThe dominant models are recurrent."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
