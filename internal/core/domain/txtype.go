package domain

import "strings"

// TransactionTypeConfig holds the per-organization rules for a transaction
// type. Rules are data, evaluated generically, so new types never require a
// code change.
type TransactionTypeConfig struct {
	TypeCode                string        `json:"typeCode"` // e.g. "SALES_INVOICE"
	OrgID                   string        `json:"orgID"`
	Name                    string        `json:"name"`
	RequiresApproval        bool          `json:"requiresApproval"`
	InventoryAffecting      bool          `json:"inventoryAffecting"`
	AllowedAccountTypes     []AccountType `json:"allowedAccountTypes"` // Empty means all types allowed
	RequireReference        bool          `json:"requireReference"`
	DisallowedCodePrefixes  []string      `json:"disallowedCodePrefixes"` // Account code prefixes this type may not touch
	SupportedSchemaVersions []int         `json:"supportedSchemaVersions"`
	AuditFields
}

// AllowsAccountType reports whether a line of this type may reference an
// account of the given type.
func (c TransactionTypeConfig) AllowsAccountType(t AccountType) bool {
	if len(c.AllowedAccountTypes) == 0 {
		return true
	}
	for _, allowed := range c.AllowedAccountTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// DisallowsAccountCode reports which configured prefix (if any) forbids the
// given account code for this type.
func (c TransactionTypeConfig) DisallowsAccountCode(code string) (string, bool) {
	for _, prefix := range c.DisallowedCodePrefixes {
		if prefix != "" && strings.HasPrefix(code, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// SupportsSchemaVersion reports whether a transaction recorded at the given
// schema version can still be interpreted under this configuration.
func (c TransactionTypeConfig) SupportsSchemaVersion(v int) bool {
	for _, sv := range c.SupportedSchemaVersions {
		if sv == v {
			return true
		}
	}
	return false
}
