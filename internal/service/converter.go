package service

import (
	"math"
	"strings"
	"time"

	"forex-converter-api/internal/metrics"
	"forex-converter-api/internal/models"
	"forex-converter-api/internal/rates"

	"github.com/sirupsen/logrus"
)

// Converter performs currency conversions against the rate table
type Converter struct {
	table          *rates.Table
	logger         *logrus.Logger
	serviceMetrics *metrics.Metrics
}

// NewConverter creates a new converter
func NewConverter(table *rates.Table, logger *logrus.Logger, serviceMetrics *metrics.Metrics) *Converter {
	return &Converter{
		table:          table,
		logger:         logger,
		serviceMetrics: serviceMetrics,
	}
}

// Convert converts an amount between two currencies by routing through the
// base currency. Currency codes are uppercased before lookup. Returns a
// ConversionError for unsupported codes or a non-positive amount.
func (converter *Converter) Convert(amount float64, fromCurrency, toCurrency string) (models.ConversionResult, error) {
	fromCode := strings.ToUpper(fromCurrency)
	toCode := strings.ToUpper(toCurrency)

	fromRate, fromSupported := converter.table.Rate(fromCode)
	if !fromSupported {
		conversionError := newUnsupportedCurrencyError("from_currency", fromCode)
		converter.logger.WithField("from_currency", fromCode).Error(conversionError.Message)
		return models.ConversionResult{}, conversionError
	}

	toRate, toSupported := converter.table.Rate(toCode)
	if !toSupported {
		conversionError := newUnsupportedCurrencyError("to_currency", toCode)
		converter.logger.WithField("to_currency", toCode).Error(conversionError.Message)
		return models.ConversionResult{}, conversionError
	}

	if amount <= 0 {
		conversionError := newInvalidAmountError(amount)
		converter.logger.WithField("amount", amount).Error(conversionError.Message)
		return models.ConversionResult{}, conversionError
	}

	// Route through the base currency so the table only needs one rate per
	// currency instead of a full pairwise matrix
	amountInBase := amount / fromRate
	convertedAmount := amountInBase * toRate
	exchangeRate := toRate / fromRate

	if math.IsNaN(convertedAmount) || math.IsInf(convertedAmount, 0) {
		converter.logger.WithFields(logrus.Fields{
			"amount":        amount,
			"from_currency": fromCode,
			"to_currency":   toCode,
		}).Error("Conversion produced a non-finite result")
		return models.ConversionResult{}, &ConversionError{
			Type:    ErrorTypeInternal,
			Message: "Internal conversion error",
		}
	}

	converter.serviceMetrics.ConversionsTotal.WithLabelValues(fromCode, toCode).Inc()

	converter.logger.WithFields(logrus.Fields{
		"amount":        amount,
		"from_currency": fromCode,
		"to_currency":   toCode,
		"converted":     convertedAmount,
		"rate":          exchangeRate,
	}).Info("Conversion completed")

	return models.ConversionResult{
		OriginalAmount:  amount,
		FromCurrency:    fromCode,
		ToCurrency:      toCode,
		ConvertedAmount: roundTo(convertedAmount, 4),
		ExchangeRate:    roundTo(exchangeRate, 6),
		Timestamp:       time.Now().UTC(),
	}, nil
}

// roundTo rounds a value to the given number of decimal places
func roundTo(value float64, decimalPlaces int) float64 {
	scale := math.Pow(10, float64(decimalPlaces))
	return math.Round(value*scale) / scale
}
