package currency

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrUnknownCurrency = errors.New("unknown currency")

var supportedLanguages = []language.Tag{
	language.English,
	language.French,
	language.Spanish,
	language.German,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// RateProvider loads rates expressed per one unit of the base currency.
type RateProvider interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// Snapshot is a copy of the cache contents.
type Snapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Cache holds exchange rates in memory. Rates only change when Refresh is
// called.
type Cache struct {
	base     string
	provider RateProvider
	log      *zap.Logger

	mu        sync.RWMutex
	rates     map[string]float64
	updatedAt time.Time
}

func NewCache(base string, provider RateProvider, log *zap.Logger) *Cache {
	base = strings.ToUpper(base)
	return &Cache{
		base:     base,
		provider: provider,
		log:      log.With(zap.String("component", "currency")),
		rates:    map[string]float64{base: 1},
	}
}

func (c *Cache) Base() string { return c.base }

// Refresh reloads rates from the provider. On failure the previous rates
// stay in place.
func (c *Cache) Refresh(ctx context.Context) error {
	fetched, err := c.provider.Fetch(ctx)
	if err != nil {
		c.log.Warn("Rate refresh failed, keeping previous rates", zap.Error(err))
		return fmt.Errorf("refresh rates: %w", err)
	}

	rates := make(map[string]float64, len(fetched)+1)
	for code, rate := range fetched {
		if rate <= 0 {
			continue
		}
		rates[strings.ToUpper(code)] = rate
	}
	rates[c.base] = 1

	c.mu.Lock()
	c.rates = rates
	c.updatedAt = time.Now().UTC()
	c.mu.Unlock()

	c.log.Info("Exchange rates refreshed", zap.Int("currencies", len(rates)))
	return nil
}

func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rates := make(map[string]float64, len(c.rates))
	for code, rate := range c.rates {
		rates[code] = rate
	}
	return Snapshot{Base: c.base, Rates: rates, UpdatedAt: c.updatedAt}
}

func (c *Cache) rate(code string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rates[strings.ToUpper(code)]
	return r, ok
}

// Convert converts amount between two currencies through the base and
// rounds to cents.
func (c *Cache) Convert(amount float64, from, to string) (float64, error) {
	fromRate, ok := c.rate(from)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := c.rate(to)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	return math.Round(amount/fromRate*toRate*100) / 100, nil
}

// Format renders amount as money for the given language. Unsupported
// languages fall back to English.
func Format(amount float64, code, lang string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}

	p := message.NewPrinter(MatchLanguage(lang))
	return p.Sprint(currency.Symbol(unit.Amount(amount))), nil
}

func SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	for i, tag := range supportedLanguages {
		out[i] = tag.String()
	}
	return out
}

// MatchLanguage picks the closest supported language for an
// Accept-Language style value.
func MatchLanguage(lang string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := languageMatcher.Match(tags...)
	return supportedLanguages[idx]
}
