package domain

// Organization is the tenant boundary. Every other entity is scoped by OrgID.
type Organization struct {
	OrgID              string `json:"orgID"`
	Name               string `json:"name"`
	BaseCurrencyCode   string `json:"baseCurrencyCode"`
	AllowNegativeStock bool   `json:"allowNegativeStock"`
	AuditFields
}
