package domain

// Currency carries the minor-unit precision used to round and compare
// monetary amounts for transactions in that currency.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217 code
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int32  `json:"precision"` // Minor units, e.g. 2 for USD, 0 for JPY
	AuditFields
}

// DefaultPrecision is used when a currency row is missing.
const DefaultPrecision int32 = 2
