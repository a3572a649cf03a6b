package models

import "time"

// ConversionRequest is the POST /convert request body
type ConversionRequest struct {
	Amount       float64 `json:"amount"`
	FromCurrency string  `json:"from_currency" binding:"required"`
	ToCurrency   string  `json:"to_currency" binding:"required"`
}

// ConversionResult is the POST /convert success response
type ConversionResult struct {
	OriginalAmount  float64   `json:"original_amount"`
	FromCurrency    string    `json:"from_currency"`
	ToCurrency      string    `json:"to_currency"`
	ConvertedAmount float64   `json:"converted_amount"`
	ExchangeRate    float64   `json:"exchange_rate"`
	Timestamp       time.Time `json:"timestamp"`
}

// HealthCheck is the GET /health response
type HealthCheck struct {
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	Version       string    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// CurrenciesResponse is the GET /currencies response
type CurrenciesResponse struct {
	AvailableCurrencies []string  `json:"available_currencies"`
	BaseCurrency        string    `json:"base_currency"`
	Count               int       `json:"count"`
	Timestamp           time.Time `json:"timestamp"`
}

// WelcomeResponse is the GET / response
type WelcomeResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse is the body returned for all error statuses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
