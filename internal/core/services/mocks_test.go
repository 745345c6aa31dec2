package services_test

import (
	"context"
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryWithTx interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, orgID, txnID string) (*domain.Transaction, error) {
	args := m.Called(ctx, orgID, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, orgID, key string) (*domain.Transaction, error) {
	args := m.Called(ctx, orgID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListLedgerEntriesByAccount(ctx context.Context, orgID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, orgID, accountID, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockTransactionRepository) SaveDraft(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateDraft(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, orgID, txnID string, from, to domain.TransactionStatus, actorID string, at time.Time) error {
	args := m.Called(ctx, orgID, txnID, from, to, actorID, at)
	return args.Error(0)
}

func (m *MockTransactionRepository) PostTransaction(ctx context.Context, txn domain.Transaction, plan domain.PostingPlan) (*domain.PostResult, error) {
	args := m.Called(ctx, txn, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostResult), args.Error(1)
}

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, orgID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, orgID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, orgID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, orgID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, actorID string, at time.Time) error {
	args := m.Called(ctx, tx, changes, actorID, at)
	return args.Error(0)
}

// MockPeriodRepository is a mock type for the PeriodRepository interface
type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, orgID, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, orgID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodForDate(ctx context.Context, orgID string, date time.Time) (*domain.Period, error) {
	args := m.Called(ctx, orgID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodForDateInTx(ctx context.Context, tx pgx.Tx, orgID string, date time.Time) (*domain.Period, error) {
	args := m.Called(ctx, tx, orgID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, orgID, periodID string, from, to domain.PeriodStatus, actorID string, at time.Time) error {
	args := m.Called(ctx, orgID, periodID, from, to, actorID, at)
	return args.Error(0)
}

// MockTypeRepository is a mock type for the TransactionTypeRepository interface
type MockTypeRepository struct {
	mock.Mock
}

func (m *MockTypeRepository) FindTypeConfig(ctx context.Context, orgID, typeCode string) (*domain.TransactionTypeConfig, error) {
	args := m.Called(ctx, orgID, typeCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionTypeConfig), args.Error(1)
}

func (m *MockTypeRepository) ListTypeConfigs(ctx context.Context, orgID string) ([]domain.TransactionTypeConfig, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionTypeConfig), args.Error(1)
}

// MockCurrencyRepository is a mock type for the CurrencyRepository interface
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

// MockOrganizationRepository is a mock type for the OrganizationRepository interface
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

// MockBudgetRepository is a mock type for the BudgetRepository interface
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetsForScopes(ctx context.Context, orgID, periodID string, scopes []domain.BudgetScope) ([]domain.Budget, error) {
	args := m.Called(ctx, orgID, periodID, scopes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) AccumulatedSpend(ctx context.Context, orgID, periodID string, scope domain.BudgetScope) (decimal.Decimal, error) {
	args := m.Called(ctx, orgID, periodID, scope)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockAuditRepository is a mock type for the AuditRepository interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) InsertEventInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) ListEventsByTransaction(ctx context.Context, orgID, txnID string) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, orgID, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

// MockValidationSvc is a mock type for the ValidationSvcFacade interface
type MockValidationSvc struct {
	mock.Mock
}

func (m *MockValidationSvc) ValidateTransaction(ctx context.Context, txn *domain.Transaction) ([]apperrors.Violation, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apperrors.Violation), args.Error(1)
}

// MockBudgetSvc is a mock type for the BudgetSvcFacade interface
type MockBudgetSvc struct {
	mock.Mock
}

func (m *MockBudgetSvc) Evaluate(ctx context.Context, txn *domain.Transaction, periodID string, override bool, justification string, actor domain.Actor) ([]string, *domain.OverrideRecord, error) {
	args := m.Called(ctx, txn, periodID, override, justification, actor)
	var warnings []string
	if args.Get(0) != nil {
		warnings = args.Get(0).([]string)
	}
	var record *domain.OverrideRecord
	if args.Get(1) != nil {
		record = args.Get(1).(*domain.OverrideRecord)
	}
	return warnings, record, args.Error(2)
}

// MockPermissionSvc is a mock type for the PermissionSvcFacade interface
type MockPermissionSvc struct {
	mock.Mock
}

func (m *MockPermissionSvc) Allows(actor domain.Actor, action domain.Action) bool {
	args := m.Called(actor, action)
	return args.Bool(0)
}
