package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodRepository
	mockAuditRepo  *MockAuditRepository
	mockPerm       *MockPermissionSvc
	service        *services.PeriodService
	ctx            context.Context

	orgID string
	actor domain.Actor
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockPerm = new(MockPermissionSvc)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo, suite.mockAuditRepo, suite.mockPerm)
	suite.ctx = context.Background()

	suite.orgID = uuid.NewString()
	suite.actor = domain.Actor{UserID: "u-1", Roles: []string{"controller"}}
}

func (suite *PeriodServiceTestSuite) closedPeriod() *domain.Period {
	return &domain.Period{
		PeriodID:  "period-1",
		OrgID:     suite.orgID,
		Name:      "2026-07",
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodClosed,
	}
}

func (suite *PeriodServiceTestSuite) TestReopenPeriod_Success() {
	suite.mockPerm.On("Allows", suite.actor, domain.ActionReopenPeriod).Return(true)
	suite.mockPeriodRepo.On("FindPeriodByID", suite.ctx, suite.orgID, "period-1").Return(suite.closedPeriod(), nil)
	suite.mockPeriodRepo.On("UpdatePeriodStatus", suite.ctx, suite.orgID, "period-1", domain.PeriodClosed, domain.PeriodOpen, suite.actor.UserID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditRepo.On("SaveEvent", suite.ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil)

	period, err := suite.service.ReopenPeriod(suite.ctx, suite.orgID, "period-1", suite.actor)

	suite.NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
	suite.mockPeriodRepo.AssertExpectations(suite.T())

	// the reopen itself is audited
	eventArg := suite.mockAuditRepo.Calls[0].Arguments.Get(1).(domain.AuditEvent)
	suite.Equal(domain.AuditPeriodReopened, eventArg.Action)
	suite.Equal("period-1", eventArg.Details["periodID"])
}

func (suite *PeriodServiceTestSuite) TestReopenPeriod_PermissionDenied() {
	suite.mockPerm.On("Allows", suite.actor, domain.ActionReopenPeriod).Return(false)

	_, err := suite.service.ReopenPeriod(suite.ctx, suite.orgID, "period-1", suite.actor)

	suite.Error(err)
	suite.Equal(apperrors.KindPermissionDenied, apperrors.KindOf(err))
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestReopenPeriod_AlreadyOpen() {
	period := suite.closedPeriod()
	period.Status = domain.PeriodOpen
	suite.mockPerm.On("Allows", suite.actor, domain.ActionReopenPeriod).Return(true)
	suite.mockPeriodRepo.On("FindPeriodByID", suite.ctx, suite.orgID, "period-1").Return(period, nil)

	_, err := suite.service.ReopenPeriod(suite.ctx, suite.orgID, "period-1", suite.actor)

	suite.Error(err)
	suite.Equal(apperrors.KindInvalidStatusTransition, apperrors.KindOf(err))
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
