package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected path: %v", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test_123" {
			t.Errorf("unexpected authorization header: %v", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Idempotency-Key") != "key-1" {
			t.Errorf("unexpected idempotency key: %v", r.Header.Get("Idempotency-Key"))
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("unexpected error: %v", err.Error())
		}
		if r.PostForm.Get("amount") != "4200" || r.PostForm.Get("currency") != "usd" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}

		json.NewEncoder(w).Encode(&Intent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret_456",
			Amount:       4200,
			Currency:     "usd",
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.Client(), srv.URL, "sk_test_123")

	intent, err := p.CreateIntent(context.Background(), 4200, "usd", "key-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if intent.ClientSecret != "pi_123_secret_456" {
		t.Errorf("expected client secret, but was %v", intent.ClientSecret)
	}
}

func TestCreateIntentProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.Client(), srv.URL, "sk_test_123")

	if _, err := p.CreateIntent(context.Background(), 100, "usd", "key-2"); err == nil {
		t.Fatal("expected error, but was nil")
	}
}

func TestCreateIntentEmptySecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&Intent{ID: "pi_123"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.Client(), srv.URL, "sk_test_123")

	if _, err := p.CreateIntent(context.Background(), 100, "usd", "key-3"); err == nil {
		t.Fatal("expected error, but was nil")
	}
}
