package testutils

import (
	"time"

	"forex-converter-api/internal/config"
	"forex-converter-api/internal/logger"
	"forex-converter-api/internal/metrics"
	"forex-converter-api/internal/rates"
	"forex-converter-api/internal/service"

	"github.com/sirupsen/logrus"
)

// MockLogger creates a quiet logger for testing
func MockLogger() *logrus.Logger {
	return logger.New("error")
}

// MockConfig creates a mock configuration for testing
func MockConfig() *config.Config {
	return &config.Config{
		Host:     "127.0.0.1",
		Port:     "8000",
		LogLevel: "error",

		ServiceName:    "forex-converter-api",
		ServiceVersion: "1.0.0",

		// Rate limiting stays off in tests so request counts are deterministic
		RateLimitEnabled:  false,
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		RateLimitBurst:    10,
	}
}

// MockMetrics creates a fresh metrics instance with its own registry,
// isolating counter state between tests
func MockMetrics() *metrics.Metrics {
	return metrics.New()
}

// MockTable creates the built-in rate table
func MockTable() *rates.Table {
	return rates.NewTable()
}

// MockConverter creates a converter over the built-in rate table
func MockConverter(serviceMetrics *metrics.Metrics) *service.Converter {
	return service.NewConverter(rates.NewTable(), MockLogger(), serviceMetrics)
}
