package rates

import "sort"

// BaseCurrency is the reference currency all table rates are expressed against
const BaseCurrency = "USD"

// Table is an immutable mapping from currency code to its rate relative to
// the base currency (units of code per one USD). The table is never mutated
// after construction, so concurrent reads need no locking.
type Table struct {
	rates map[string]float64
}

// NewTable creates the rate table from the fixed built-in rate set
func NewTable() *Table {
	return &Table{
		rates: map[string]float64{
			"USD": 1.0,
			"EUR": 0.92,
			"GBP": 0.79,
			"JPY": 151.50,
			"CAD": 1.36,
			"MAD": 10.07,
			"BTC": 0.000015,
		},
	}
}

// Rate returns the rate for a currency code and whether the code is supported
func (table *Table) Rate(currencyCode string) (float64, bool) {
	rate, supported := table.rates[currencyCode]
	return rate, supported
}

// Codes returns all supported currency codes in sorted order
func (table *Table) Codes() []string {
	currencyCodes := make([]string, 0, len(table.rates))
	for currencyCode := range table.rates {
		currencyCodes = append(currencyCodes, currencyCode)
	}
	sort.Strings(currencyCodes)
	return currencyCodes
}

// Count returns the number of supported currencies
func (table *Table) Count() int {
	return len(table.rates)
}
