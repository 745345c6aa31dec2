package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ValidationServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo   *MockPeriodRepository
	mockTypeRepo     *MockTypeRepository
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          *services.ValidationService
	ctx              context.Context

	orgID string
	txn   *domain.Transaction
}

func (suite *ValidationServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockTypeRepo = new(MockTypeRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewValidationService(suite.mockPeriodRepo, suite.mockTypeRepo, suite.mockAccountRepo, suite.mockCurrencyRepo)
	suite.ctx = context.Background()

	suite.orgID = uuid.NewString()
	suite.txn = suite.balancedTransaction()
}

// balancedTransaction builds a two-line journal that passes every check when
// the default mocks are in place.
func (suite *ValidationServiceTestSuite) balancedTransaction() *domain.Transaction {
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		OrgID:         suite.orgID,
		TypeCode:      "JOURNAL",
		Date:          time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Reference:     "INV-100",
		CurrencyCode:  "USD",
		ExchangeRate:  decimal.NewFromInt(1),
		Status:        domain.Draft,
		SchemaVersion: 1,
		Lines: []domain.TransactionLine{
			{LineID: uuid.NewString(), LineNo: 1, AccountID: "acc-1", Debit: decimal.NewFromInt(100)},
			{LineID: uuid.NewString(), LineNo: 2, AccountID: "acc-2", Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *ValidationServiceTestSuite) openPeriod() *domain.Period {
	return &domain.Period{
		PeriodID:  uuid.NewString(),
		OrgID:     suite.orgID,
		Name:      "2026-08",
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
}

func (suite *ValidationServiceTestSuite) journalType() *domain.TransactionTypeConfig {
	return &domain.TransactionTypeConfig{
		TypeCode:                "JOURNAL",
		OrgID:                   suite.orgID,
		Name:                    "General journal",
		SupportedSchemaVersions: []int{1},
	}
}

func (suite *ValidationServiceTestSuite) accounts() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-1": {AccountID: "acc-1", OrgID: suite.orgID, Code: "1000", AccountType: domain.Asset, IsActive: true},
		"acc-2": {AccountID: "acc-2", OrgID: suite.orgID, Code: "4000", AccountType: domain.Income, IsActive: true},
	}
}

func (suite *ValidationServiceTestSuite) usd() *domain.Currency {
	return &domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}
}

// expectHappyLookups wires every lookup for a transaction that should pass.
func (suite *ValidationServiceTestSuite) expectHappyLookups() {
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)
}

func (suite *ValidationServiceTestSuite) kinds(violations []apperrors.Violation) []apperrors.Kind {
	kinds := make([]apperrors.Kind, len(violations))
	for i, v := range violations {
		kinds[i] = v.Kind
	}
	return kinds
}

func (suite *ValidationServiceTestSuite) TestValidate_CleanTransaction() {
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Empty(violations)
}

func (suite *ValidationServiceTestSuite) TestValidate_ClosedPeriod() {
	period := suite.openPeriod()
	period.Status = domain.PeriodClosed
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(period, nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindPeriodClosed)
}

func (suite *ValidationServiceTestSuite) TestValidate_NoPeriodConfigured() {
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindPeriodClosed)
}

func (suite *ValidationServiceTestSuite) TestValidate_EmptyTransaction() {
	suite.txn.Lines = nil
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindEmptyTransaction)
}

func (suite *ValidationServiceTestSuite) TestValidate_DeletedLinesDoNotCount() {
	for i := range suite.txn.Lines {
		suite.txn.Lines[i].Deleted = true
	}
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindEmptyTransaction)
}

func (suite *ValidationServiceTestSuite) TestValidate_Imbalanced() {
	suite.txn.Lines[1].Credit = decimal.NewFromInt(90)
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindImbalanced)
}

func (suite *ValidationServiceTestSuite) TestValidate_BothSidesOnOneLine() {
	suite.txn.Lines[0].Credit = decimal.NewFromInt(10)
	suite.txn.Lines[1].Credit = decimal.NewFromInt(110)
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindBothOrNeitherSide)
	for _, v := range violations {
		if v.Kind == apperrors.KindBothOrNeitherSide {
			suite.NotNil(v.LineIndex)
			suite.Equal(0, *v.LineIndex)
		}
	}
}

func (suite *ValidationServiceTestSuite) TestValidate_NeitherSideOnOneLine() {
	suite.txn.Lines = append(suite.txn.Lines, domain.TransactionLine{LineID: uuid.NewString(), LineNo: 3, AccountID: "acc-1"})
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindBothOrNeitherSide)
}

func (suite *ValidationServiceTestSuite) TestValidate_CollectsMultipleViolations() {
	// Imbalanced AND referencing an unknown account: both must be reported.
	suite.txn.Lines[1].Credit = decimal.NewFromInt(90)
	suite.txn.Lines[1].AccountID = "acc-missing"
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	accounts := suite.accounts()
	delete(accounts, "acc-2")
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(accounts, nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	kinds := suite.kinds(violations)
	suite.Contains(kinds, apperrors.KindImbalanced)
	suite.Contains(kinds, apperrors.KindAccountTypeMismatch)
}

func (suite *ValidationServiceTestSuite) TestValidate_UnknownTypeCode() {
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(nil, apperrors.ErrNotFound)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindTypeRuleViolation)
}

func (suite *ValidationServiceTestSuite) TestValidate_MissingRequiredReference() {
	suite.txn.Reference = ""
	cfg := suite.journalType()
	cfg.RequireReference = true
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(cfg, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindTypeRuleViolation)
}

func (suite *ValidationServiceTestSuite) TestValidate_DisallowedAccountType() {
	cfg := suite.journalType()
	cfg.AllowedAccountTypes = []domain.AccountType{domain.Asset, domain.Liability}
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(cfg, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	// acc-2 is INCOME, which the config does not allow
	suite.Contains(suite.kinds(violations), apperrors.KindAccountTypeMismatch)
}

func (suite *ValidationServiceTestSuite) TestValidate_DisallowedCodePrefix() {
	cfg := suite.journalType()
	cfg.DisallowedCodePrefixes = []string{"40"}
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(cfg, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindTypeRuleViolation)
}

func (suite *ValidationServiceTestSuite) TestValidate_InactiveAccount() {
	accounts := suite.accounts()
	inactive := accounts["acc-2"]
	inactive.IsActive = false
	accounts["acc-2"] = inactive
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(accounts, nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindAccountTypeMismatch)
}

func (suite *ValidationServiceTestSuite) TestValidate_ExcessPrecision() {
	suite.txn.Lines[0].Debit = decimal.RequireFromString("100.005")
	suite.txn.Lines[1].Credit = decimal.RequireFromString("100.005")
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindInvalidPrecision)
}

func (suite *ValidationServiceTestSuite) TestValidate_SubMinorUnitDriftIsPrecisionNotImbalance() {
	// 100.004 and 100.001 agree once rounded to USD's two decimal places: the
	// stray decimals must surface as INVALID_PRECISION only.
	suite.txn.Lines[0].Debit = decimal.RequireFromString("100.004")
	suite.txn.Lines[1].Credit = decimal.RequireFromString("100.001")
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	kinds := suite.kinds(violations)
	suite.Contains(kinds, apperrors.KindInvalidPrecision)
	suite.NotContains(kinds, apperrors.KindImbalanced)
}

func (suite *ValidationServiceTestSuite) TestValidate_ZeroDecimalCurrency() {
	suite.txn.CurrencyCode = "JPY"
	suite.txn.Lines[0].Debit = decimal.RequireFromString("100.50")
	suite.txn.Lines[1].Credit = decimal.RequireFromString("100.50")
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(suite.journalType(), nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "JPY").Return(&domain.Currency{CurrencyCode: "JPY", Precision: 0}, nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindInvalidPrecision)
}

func (suite *ValidationServiceTestSuite) TestValidate_NonPositiveExchangeRate() {
	suite.txn.ExchangeRate = decimal.Zero
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindInvalidPrecision)
}

func (suite *ValidationServiceTestSuite) TestValidate_UnsupportedSchemaVersion() {
	suite.txn.SchemaVersion = 7
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindSchemaVersionMismatch)
}

func (suite *ValidationServiceTestSuite) TestValidate_InventoryMetadataOnPlainType() {
	productID, warehouseID := "prod-1", "wh-1"
	suite.txn.Lines[0].ProductID = &productID
	suite.txn.Lines[0].WarehouseID = &warehouseID
	suite.txn.Lines[0].Direction = domain.MovementIn
	suite.txn.Lines[0].Quantity = decimal.NewFromInt(5)
	suite.expectHappyLookups()

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindTypeRuleViolation)
}

func (suite *ValidationServiceTestSuite) TestValidate_IncompleteInventoryLine() {
	cfg := suite.journalType()
	cfg.InventoryAffecting = true
	productID := "prod-1"
	suite.txn.Lines[0].ProductID = &productID
	suite.txn.Lines[0].Quantity = decimal.NewFromInt(5)
	suite.mockPeriodRepo.On("FindPeriodForDate", suite.ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(suite.openPeriod(), nil)
	suite.mockTypeRepo.On("FindTypeConfig", suite.ctx, suite.orgID, "JOURNAL").Return(cfg, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.usd(), nil)

	violations, err := suite.service.ValidateTransaction(suite.ctx, suite.txn)

	suite.NoError(err)
	suite.Contains(suite.kinds(violations), apperrors.KindTypeRuleViolation)
}

func TestValidationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ValidationServiceTestSuite))
}
