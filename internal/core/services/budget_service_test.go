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

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo  *MockBudgetRepository
	mockAccountRepo *MockAccountRepository
	mockPerm        *MockPermissionSvc
	service         *services.BudgetService
	ctx             context.Context

	orgID    string
	periodID string
	actor    domain.Actor
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPerm = new(MockPermissionSvc)
	suite.service = services.NewBudgetService(suite.mockBudgetRepo, suite.mockAccountRepo, suite.mockPerm)
	suite.ctx = context.Background()

	suite.orgID = uuid.NewString()
	suite.periodID = "period-1"
	suite.actor = domain.Actor{UserID: "u-1", Roles: []string{"accountant"}}
}

// spendingTransaction debits an expense account for 100 against a cost
// center. Base amounts are already converted.
func (suite *BudgetServiceTestSuite) spendingTransaction() *domain.Transaction {
	costCenter := "cc-1"
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		OrgID:         suite.orgID,
		TypeCode:      "EXPENSE_CLAIM",
		Date:          time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "USD",
		ExchangeRate:  decimal.NewFromInt(1),
		Status:        domain.Draft,
		Lines: []domain.TransactionLine{
			{LineNo: 1, AccountID: "acc-exp", Debit: decimal.NewFromInt(100), BaseDebit: decimal.NewFromInt(100), CostCenterID: &costCenter},
			{LineNo: 2, AccountID: "acc-cash", Credit: decimal.NewFromInt(100), BaseCredit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *BudgetServiceTestSuite) expectAccounts() {
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		"acc-exp":  {AccountID: "acc-exp", Code: "6100", AccountType: domain.Expense},
		"acc-cash": {AccountID: "acc-cash", Code: "1000", AccountType: domain.Asset},
	}, nil)
}

func (suite *BudgetServiceTestSuite) costCenterBudget(limit int64, policy domain.BudgetPolicy) domain.Budget {
	return domain.Budget{
		BudgetID:    uuid.NewString(),
		OrgID:       suite.orgID,
		ScopeType:   domain.ScopeCostCenter,
		ScopeID:     "cc-1",
		PeriodID:    suite.periodID,
		LimitAmount: decimal.NewFromInt(limit),
		Policy:      policy,
	}
}

func (suite *BudgetServiceTestSuite) TestEvaluate_NoBudgetsConfigured() {
	suite.expectAccounts()
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{}, nil)

	warnings, record, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.NoError(err)
	suite.Empty(warnings)
	suite.Nil(record)
}

func (suite *BudgetServiceTestSuite) TestEvaluate_WithinLimit() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(1000, domain.PolicyBlock)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(500), nil)

	warnings, record, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.NoError(err)
	suite.Empty(warnings)
	suite.Nil(record)
}

func (suite *BudgetServiceTestSuite) TestEvaluate_ExactlyAtLimitPasses() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(1000, domain.PolicyBlock)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(900), nil)

	warnings, _, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.NoError(err)
	suite.Empty(warnings)
}

func (suite *BudgetServiceTestSuite) TestEvaluate_BlockPolicy() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(950, domain.PolicyBlock)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(900), nil)

	_, _, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.Error(err)
	suite.Equal(apperrors.KindBudgetExceeded, apperrors.KindOf(err))
}

func (suite *BudgetServiceTestSuite) TestEvaluate_WarnPolicy() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(950, domain.PolicyWarn)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(900), nil)

	warnings, record, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.NoError(err)
	suite.Len(warnings, 1)
	suite.Contains(warnings[0], "cc-1")
	suite.Nil(record)
}

func (suite *BudgetServiceTestSuite) TestEvaluate_RequireOverride_NoOverride() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(950, domain.PolicyRequireOverride)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(900), nil)

	_, _, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.Error(err)
	suite.Equal(apperrors.KindBudgetExceeded, apperrors.KindOf(err))
}

func (suite *BudgetServiceTestSuite) TestEvaluate_RequireOverride_Unauthorized() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(950, domain.PolicyRequireOverride)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(900), nil)
	suite.mockPerm.On("Allows", suite.actor, domain.ActionBudgetOverride).Return(false)

	_, _, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, true, "need it", suite.actor)

	suite.Error(err)
	suite.Equal(apperrors.KindPermissionDenied, apperrors.KindOf(err))
}

func (suite *BudgetServiceTestSuite) TestEvaluate_RequireOverride_MissingJustification() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(950, domain.PolicyRequireOverride)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(900), nil)
	suite.mockPerm.On("Allows", suite.actor, domain.ActionBudgetOverride).Return(true)

	_, _, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, true, "", suite.actor)

	suite.Error(err)
	suite.Equal(apperrors.KindBudgetExceeded, apperrors.KindOf(err))
}

func (suite *BudgetServiceTestSuite) TestEvaluate_RequireOverride_Exercised() {
	suite.expectAccounts()
	budget := suite.costCenterBudget(950, domain.PolicyRequireOverride)
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.NewFromInt(900), nil)
	suite.mockPerm.On("Allows", suite.actor, domain.ActionBudgetOverride).Return(true)

	warnings, record, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, true, "quarter-end accrual", suite.actor)

	suite.NoError(err)
	suite.Len(warnings, 1)
	suite.Require().NotNil(record)
	suite.Equal(suite.actor.UserID, record.ActorID)
	suite.Equal("quarter-end accrual", record.Justification)
}

func (suite *BudgetServiceTestSuite) TestEvaluate_AccountGroupPrefixMatch() {
	suite.expectAccounts()
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		OrgID:       suite.orgID,
		ScopeType:   domain.ScopeAccountGroup,
		ScopeID:     "61",
		PeriodID:    suite.periodID,
		LimitAmount: decimal.NewFromInt(50),
		Policy:      domain.PolicyBlock,
	}
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)
	suite.mockBudgetRepo.On("AccumulatedSpend", suite.ctx, suite.orgID, suite.periodID, budget.Scope()).Return(decimal.Zero, nil)

	// the expense account code 6100 falls under the "61" group budget
	_, _, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.Error(err)
	suite.Equal(apperrors.KindBudgetExceeded, apperrors.KindOf(err))
}

func (suite *BudgetServiceTestSuite) TestEvaluate_CreditOnlyScopeIgnored() {
	// A budget on a scope the transaction only credits must not fire.
	suite.expectAccounts()
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		OrgID:       suite.orgID,
		ScopeType:   domain.ScopeAccountGroup,
		ScopeID:     "10",
		PeriodID:    suite.periodID,
		LimitAmount: decimal.NewFromInt(1),
		Policy:      domain.PolicyBlock,
	}
	suite.mockBudgetRepo.On("FindBudgetsForScopes", suite.ctx, suite.orgID, suite.periodID, mock.AnythingOfType("[]domain.BudgetScope")).Return([]domain.Budget{budget}, nil)

	warnings, _, err := suite.service.Evaluate(suite.ctx, suite.spendingTransaction(), suite.periodID, false, "", suite.actor)

	suite.NoError(err)
	suite.Empty(warnings)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "AccumulatedSpend", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
