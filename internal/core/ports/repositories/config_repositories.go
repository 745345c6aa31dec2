package repositories

import (
	"context"

	"github.com/finbooks/posting-engine/internal/core/domain"
)

// TransactionTypeRepository serves the per-organization transaction type
// configuration table.
type TransactionTypeRepository interface {
	FindTypeConfig(ctx context.Context, orgID, typeCode string) (*domain.TransactionTypeConfig, error)
	ListTypeConfigs(ctx context.Context, orgID string) ([]domain.TransactionTypeConfig, error)
}

// CurrencyRepository resolves currency precision metadata.
type CurrencyRepository interface {
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
}

// OrganizationRepository resolves tenant-level configuration.
type OrganizationRepository interface {
	FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)
}
