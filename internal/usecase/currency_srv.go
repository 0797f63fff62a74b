package usecase

import (
	"context"

	"hotel-reservation/internal/dto/response"
	"hotel-reservation/pkg/currency"

	"go.uber.org/zap"
)

type CurrencyService interface {
	Rates(ctx context.Context) *response.CurrencyRatesResponse
	Refresh(ctx context.Context) (*response.CurrencyRatesResponse, error)
}

type currencyService struct {
	rates *currency.Cache
	log   *zap.Logger
}

func NewCurrencyService(rates *currency.Cache, log *zap.Logger) CurrencyService {
	return &currencyService{
		rates: rates,
		log:   log.With(zap.String("service", "currency")),
	}
}

func (s *currencyService) Rates(_ context.Context) *response.CurrencyRatesResponse {
	snap := s.rates.Snapshot()

	resp := &response.CurrencyRatesResponse{
		Base:      snap.Base,
		Rates:     snap.Rates,
		Languages: currency.SupportedLanguages(),
	}
	if !snap.UpdatedAt.IsZero() {
		resp.UpdatedAt = &snap.UpdatedAt
	}
	return resp
}

// Refresh reloads rates now. The previous rates stay on failure.
func (s *currencyService) Refresh(ctx context.Context) (*response.CurrencyRatesResponse, error) {
	if err := s.rates.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.Rates(ctx), nil
}
