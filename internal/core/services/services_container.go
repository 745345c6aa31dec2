package services

import (
	"github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos *repositories.RepositoryProvider) *services.ServiceContainer {
	permSvc := NewPermissionService()
	validationSvc := NewValidationService(repos.PeriodRepo, repos.TypeRepo, repos.AccountRepo, repos.CurrencyRepo)
	budgetSvc := NewBudgetService(repos.BudgetRepo, repos.AccountRepo, permSvc)
	periodSvc := NewPeriodService(repos.PeriodRepo, repos.AuditRepo, permSvc)
	postingSvc := NewPostingService(repos, validationSvc, budgetSvc, permSvc)

	return &services.ServiceContainer{
		Posting:    postingSvc,
		Validation: validationSvc,
		Budget:     budgetSvc,
		Permission: permSvc,
		Period:     periodSvc,
	}
}
