package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/models"
	"github.com/finbooks/posting-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionTypeRepository struct {
	BaseRepository
}

// newPgxTransactionTypeRepository creates a new repository for transaction
// type configuration.
func newPgxTransactionTypeRepository(pool *pgxpool.Pool) portsrepo.TransactionTypeRepository {
	return &PgxTransactionTypeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionTypeRepository = (*PgxTransactionTypeRepository)(nil)

const typeColumns = `type_code, org_id, name, requires_approval, inventory_affecting, allowed_account_types, require_reference, disallowed_code_prefixes, supported_schema_versions, created_at, created_by, last_updated_at, last_updated_by`

func scanTransactionType(row pgx.Row) (models.TransactionType, error) {
	var m models.TransactionType
	err := row.Scan(
		&m.TypeCode,
		&m.OrgID,
		&m.Name,
		&m.RequiresApproval,
		&m.InventoryAffecting,
		&m.AllowedAccountTypes,
		&m.RequireReference,
		&m.DisallowedCodePrefixes,
		&m.SupportedSchemaVersions,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTypeConfig retrieves one type configuration for the organization.
func (r *PgxTransactionTypeRepository) FindTypeConfig(ctx context.Context, orgID, typeCode string) (*domain.TransactionTypeConfig, error) {
	query := `SELECT ` + typeColumns + ` FROM transaction_types WHERE org_id = $1 AND type_code = $2;`
	m, err := scanTransactionType(r.Pool.QueryRow(ctx, query, orgID, typeCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction type "+typeCode, err)
	}
	d := mapping.ToDomainTransactionType(m)
	return &d, nil
}

// ListTypeConfigs retrieves every type configured for the organization.
func (r *PgxTransactionTypeRepository) ListTypeConfigs(ctx context.Context, orgID string) ([]domain.TransactionTypeConfig, error) {
	query := `SELECT ` + typeColumns + ` FROM transaction_types WHERE org_id = $1 ORDER BY type_code;`
	rows, err := r.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transaction types", err)
	}
	defer rows.Close()

	var configs []domain.TransactionTypeConfig
	for rows.Next() {
		m, err := scanTransactionType(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction type row", err)
		}
		configs = append(configs, mapping.ToDomainTransactionType(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction type rows", err)
	}
	return configs, nil
}

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency metadata.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepository {
	return &PgxCurrencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencyRepository = (*PgxCurrencyRepository)(nil)

// FindCurrencyByCode retrieves a currency's precision metadata.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by
		FROM currencies WHERE currency_code = $1;
	`
	var m models.Currency
	err := r.Pool.QueryRow(ctx, query, code).Scan(
		&m.CurrencyCode,
		&m.Symbol,
		&m.Name,
		&m.Precision,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find currency "+code, err)
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for tenant
// configuration.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepository {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepository = (*PgxOrganizationRepository)(nil)

// FindOrganizationByID retrieves one tenant row.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	query := `
		SELECT org_id, name, base_currency_code, allow_negative_stock, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations WHERE org_id = $1;
	`
	var m models.Organization
	err := r.Pool.QueryRow(ctx, query, orgID).Scan(
		&m.OrgID,
		&m.Name,
		&m.BaseCurrencyCode,
		&m.AllowNegativeStock,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization "+orgID, err)
	}
	d := mapping.ToDomainOrganization(m)
	return &d, nil
}
