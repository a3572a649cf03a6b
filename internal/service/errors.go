package service

import "fmt"

// ErrorType classifies conversion failures for status-code mapping
type ErrorType int

const (
	ErrorTypeUnsupportedCurrency ErrorType = iota
	ErrorTypeInvalidAmount
	ErrorTypeInternal
)

// ConversionError is a conversion failure with type information and the
// offending field/value, so handlers can name them in the response
type ConversionError struct {
	Type    ErrorType
	Field   string
	Value   string
	Message string
}

func (conversionError *ConversionError) Error() string {
	if conversionError.Value != "" {
		return fmt.Sprintf("%s: %s", conversionError.Message, conversionError.Value)
	}
	return conversionError.Message
}

// newUnsupportedCurrencyError reports a currency code absent from the rate table
func newUnsupportedCurrencyError(field, currencyCode string) *ConversionError {
	side := "source"
	if field == "to_currency" {
		side = "target"
	}
	return &ConversionError{
		Type:    ErrorTypeUnsupportedCurrency,
		Field:   field,
		Value:   currencyCode,
		Message: fmt.Sprintf("Unsupported %s currency", side),
	}
}

// newInvalidAmountError reports a non-positive amount
func newInvalidAmountError(amount float64) *ConversionError {
	return &ConversionError{
		Type:    ErrorTypeInvalidAmount,
		Field:   "amount",
		Value:   fmt.Sprintf("%g", amount),
		Message: "Amount must be greater than 0",
	}
}
