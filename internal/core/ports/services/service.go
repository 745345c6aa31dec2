package services

// ServiceContainer holds instances of all the application services. Handlers
// receive this and depend only on the facades.
type ServiceContainer struct {
	Posting    PostingSvcFacade
	Validation ValidationSvcFacade
	Budget     BudgetSvcFacade
	Permission PermissionSvcFacade
	Period     PeriodSvcFacade
}
