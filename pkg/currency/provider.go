package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type StaticProvider struct {
	rates map[string]float64
}

func NewStaticProvider(rates map[string]float64) *StaticProvider {
	return &StaticProvider{rates: rates}
}

func (p *StaticProvider) Fetch(context.Context) (map[string]float64, error) {
	out := make(map[string]float64, len(p.rates))
	for k, v := range p.rates {
		out[k] = v
	}
	return out, nil
}

// HTTPProvider reads {"base":"USD","rates":{"EUR":0.92}} from a URL.
type HTTPProvider struct {
	url    string
	base   string
	client *http.Client
}

func NewHTTPProvider(url, base string) *HTTPProvider {
	return &HTTPProvider{
		url:    url,
		base:   strings.ToUpper(base),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type ratesPayload struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (p *HTTPProvider) Fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if payload.Base != "" && !strings.EqualFold(payload.Base, p.base) {
		return nil, fmt.Errorf("rates base %s does not match %s", payload.Base, p.base)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates payload is empty")
	}

	return payload.Rates, nil
}
