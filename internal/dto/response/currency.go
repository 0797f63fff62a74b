package response

import "time"

type CurrencyRatesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt *time.Time         `json:"updated_at"`
	Languages []string           `json:"languages"`
}
