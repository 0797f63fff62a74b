package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type mockProvider struct {
	FetchFunc func(ctx context.Context) (map[string]float64, error)
}

func (m *mockProvider) Fetch(ctx context.Context) (map[string]float64, error) {
	return m.FetchFunc(ctx)
}

func TestCacheConvert(t *testing.T) {
	c := NewCache("usd", NewStaticProvider(map[string]float64{"EUR": 0.5, "GBP": 0.25}), zap.NewNop())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	tests := []struct {
		name     string
		amount   float64
		from, to string
		want     float64
		wantErr  bool
	}{
		{"base to eur", 100, "USD", "EUR", 50, false},
		{"eur to base", 50, "EUR", "USD", 100, false},
		{"eur to gbp", 10, "eur", "gbp", 5, false},
		{"same", 12.344, "USD", "USD", 12.34, false},
		{"unknown", 1, "USD", "JPY", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.amount, tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCurrency) {
					t.Fatalf("error = %v, want ErrUnknownCurrency", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheRefreshFailureKeepsRates(t *testing.T) {
	calls := 0
	p := &mockProvider{FetchFunc: func(context.Context) (map[string]float64, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("upstream down")
		}
		return map[string]float64{"EUR": 0.9}, nil
	}}
	c := NewCache("USD", p, zap.NewNop())

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	first := c.Snapshot()

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected second refresh to fail")
	}

	second := c.Snapshot()
	if second.Rates["EUR"] != 0.9 || !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("rates changed after failed refresh: %+v", second)
	}
	if second.Rates["USD"] != 1 {
		t.Errorf("base rate = %v, want 1", second.Rates["USD"])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewCache("USD", NewStaticProvider(map[string]float64{"EUR": 0.9}), zap.NewNop())
	_ = c.Refresh(context.Background())

	snap := c.Snapshot()
	snap.Rates["EUR"] = 42

	if got := c.Snapshot().Rates["EUR"]; got != 0.9 {
		t.Errorf("cache mutated through snapshot: %v", got)
	}
}

func TestHTTPProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92,"GBP":0.79}}`))
	}))
	defer srv.Close()

	rates, err := NewHTTPProvider(srv.URL, "usd").Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if rates["EUR"] != 0.92 || rates["GBP"] != 0.79 {
		t.Errorf("unexpected rates: %v", rates)
	}

	if _, err := NewHTTPProvider(srv.URL, "EUR").Fetch(context.Background()); err == nil {
		t.Error("expected base mismatch error")
	}
}

func TestHTTPProviderBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewHTTPProvider(srv.URL, "USD").Fetch(context.Background()); err == nil {
		t.Error("expected error on 502")
	}
}

func TestFormat(t *testing.T) {
	got, err := Format(12.5, "EUR", "fr")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(got, "€") {
		t.Errorf("Format = %q, want euro symbol", got)
	}

	if _, err := Format(1, "XYZ1", "en"); err == nil {
		t.Error("expected error for invalid currency code")
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := map[string]language.Tag{
		"de-DE,de;q=0.9": language.German,
		"es":             language.Spanish,
		"ja":             language.English,
		"":               language.English,
	}
	for in, want := range tests {
		if got := MatchLanguage(in); got != want {
			t.Errorf("MatchLanguage(%q) = %v, want %v", in, got, want)
		}
	}
}
