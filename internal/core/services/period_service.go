package services

import (
	"context"
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/core/ports/services"
	"github.com/finbooks/posting-engine/internal/middleware"
	"github.com/google/uuid"
)

// PeriodService covers the administrative period operations.
type PeriodService struct {
	periodRepo repositories.PeriodRepository
	auditRepo  repositories.AuditRepository
	permSvc    services.PermissionSvcFacade
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo repositories.PeriodRepository, auditRepo repositories.AuditRepository, permSvc services.PermissionSvcFacade) *PeriodService {
	return &PeriodService{periodRepo: periodRepo, auditRepo: auditRepo, permSvc: permSvc}
}

// ReopenPeriod flips a closed period back to open so corrections can be
// posted into it. The flip is guarded by the current status and audited.
func (s *PeriodService) ReopenPeriod(ctx context.Context, orgID, periodID string, actor domain.Actor) (*domain.Period, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.permSvc.Allows(actor, domain.ActionReopenPeriod) {
		return nil, apperrors.Newf(apperrors.KindPermissionDenied, "actor %s may not reopen periods", actor.UserID)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, orgID, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsOpen() {
		return nil, apperrors.Newf(apperrors.KindInvalidStatusTransition, "period %s is already open", period.Name)
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, orgID, periodID, domain.PeriodClosed, domain.PeriodOpen, actor.UserID, now); err != nil {
		return nil, err
	}

	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		OrgID:      orgID,
		Action:     domain.AuditPeriodReopened,
		ActorID:    actor.UserID,
		OccurredAt: now,
		FromStatus: string(domain.PeriodClosed),
		ToStatus:   string(domain.PeriodOpen),
		Details:    map[string]string{"periodID": periodID, "periodName": period.Name},
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		logger.Error("Failed to record period reopen audit event", "period_id", periodID, "error", err)
	}

	period.Status = domain.PeriodOpen
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actor.UserID
	logger.Info("Period reopened", "period_id", periodID, "actor_id", actor.UserID)
	return period, nil
}
