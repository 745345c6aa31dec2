package models

// TransactionType represents a per-organization transaction type
// configuration row. List-valued rules are stored as Postgres arrays.
type TransactionType struct {
	TypeCode                string   `db:"type_code"`
	OrgID                   string   `db:"org_id"`
	Name                    string   `db:"name"`
	RequiresApproval        bool     `db:"requires_approval"`
	InventoryAffecting      bool     `db:"inventory_affecting"`
	AllowedAccountTypes     []string `db:"allowed_account_types"`
	RequireReference        bool     `db:"require_reference"`
	DisallowedCodePrefixes  []string `db:"disallowed_code_prefixes"`
	SupportedSchemaVersions []int32  `db:"supported_schema_versions"`
	AuditFields
}
