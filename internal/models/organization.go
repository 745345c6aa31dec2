package models

// Organization represents a tenant row.
type Organization struct {
	OrgID              string `db:"org_id"`
	Name               string `db:"name"`
	BaseCurrencyCode   string `db:"base_currency_code"`
	AllowNegativeStock bool   `db:"allow_negative_stock"`
	AuditFields
}

// Currency represents a currency metadata row.
type Currency struct {
	CurrencyCode string `db:"currency_code"`
	Symbol       string `db:"symbol"`
	Name         string `db:"name"`
	Precision    int32  `db:"precision"`
	AuditFields
}
