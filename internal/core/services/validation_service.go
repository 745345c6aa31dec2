package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/middleware"
	"github.com/finbooks/posting-engine/internal/utils/accounting"
)

// ValidationService runs the ordered validation pipeline over a transaction.
// Checks never short-circuit each other: a single pass reports every
// violation. The service only reads lookups, it never writes or locks.
type ValidationService struct {
	periodRepo   repositories.PeriodRepository
	typeRepo     repositories.TransactionTypeRepository
	accountRepo  repositories.AccountRepository
	currencyRepo repositories.CurrencyRepository
}

// NewValidationService creates a new ValidationService.
func NewValidationService(
	periodRepo repositories.PeriodRepository,
	typeRepo repositories.TransactionTypeRepository,
	accountRepo repositories.AccountRepository,
	currencyRepo repositories.CurrencyRepository,
) *ValidationService {
	return &ValidationService{
		periodRepo:   periodRepo,
		typeRepo:     typeRepo,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

// ValidateTransaction runs every check in order and returns the complete list
// of violations. A non-nil error means a lookup failed, not that the
// transaction is invalid.
func (s *ValidationService) ValidateTransaction(ctx context.Context, txn *domain.Transaction) ([]apperrors.Violation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var violations []apperrors.Violation
	lines := txn.ActiveLines()

	v, err := s.checkPeriodOpen(ctx, txn)
	if err != nil {
		return nil, err
	}
	violations = append(violations, v...)

	// The currency's minor unit is needed by both the balance and the
	// precision checks, so it is resolved once up front.
	precision, v, err := s.lookupPrecision(ctx, txn)
	if err != nil {
		return nil, err
	}
	violations = append(violations, v...)

	violations = append(violations, checkNotEmpty(lines)...)
	violations = append(violations, checkSideExclusivity(lines)...)
	violations = append(violations, checkBalanced(lines, precision)...)

	cfg, v, err := s.lookupTypeConfig(ctx, txn)
	if err != nil {
		return nil, err
	}
	violations = append(violations, v...)
	if cfg != nil {
		violations = append(violations, checkTypeRules(txn, lines, cfg)...)
		violations = append(violations, checkSchemaVersion(txn, cfg)...)
	}

	v, err = s.checkAccounts(ctx, txn, lines, cfg)
	if err != nil {
		return nil, err
	}
	violations = append(violations, v...)

	violations = append(violations, checkPrecision(txn, lines, precision)...)

	if len(violations) > 0 {
		logger.Info("Validation found violations", "transaction_id", txn.TransactionID, "count", len(violations))
	}
	return violations, nil
}

func (s *ValidationService) checkPeriodOpen(ctx context.Context, txn *domain.Transaction) ([]apperrors.Violation, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, txn.OrgID, txn.Date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []apperrors.Violation{{
				Kind:    apperrors.KindPeriodClosed,
				Message: fmt.Sprintf("no accounting period covers %s", txn.Date.Format("2006-01-02")),
			}}, nil
		}
		return nil, err
	}
	if !period.IsOpen() {
		return []apperrors.Violation{{
			Kind:    apperrors.KindPeriodClosed,
			Message: fmt.Sprintf("period %s is closed", period.Name),
			Context: map[string]string{"periodID": period.PeriodID},
		}}, nil
	}
	return nil, nil
}

func checkNotEmpty(lines []domain.TransactionLine) []apperrors.Violation {
	if len(lines) == 0 {
		return []apperrors.Violation{{
			Kind:    apperrors.KindEmptyTransaction,
			Message: "transaction has no lines",
		}}
	}
	return nil
}

// checkSideExclusivity enforces that every line carries exactly one strictly
// positive side. Negative amounts are rejected here too.
func checkSideExclusivity(lines []domain.TransactionLine) []apperrors.Violation {
	var out []apperrors.Violation
	for i, l := range lines {
		idx := i
		switch {
		case l.Debit.IsNegative() || l.Credit.IsNegative():
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindBothOrNeitherSide,
				Message:   "line amounts must not be negative",
				LineIndex: &idx,
			})
		case l.Debit.IsPositive() && l.Credit.IsPositive():
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindBothOrNeitherSide,
				Message:   "line carries both a debit and a credit",
				LineIndex: &idx,
			})
		case l.Debit.IsZero() && l.Credit.IsZero():
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindBothOrNeitherSide,
				Message:   "line carries neither a debit nor a credit",
				LineIndex: &idx,
			})
		}
	}
	return out
}

// checkBalanced compares the side totals after rounding both to the
// currency's minor unit. A sub-minor-unit difference is a precision problem,
// not an imbalance, and is reported by checkPrecision alone.
func checkBalanced(lines []domain.TransactionLine, precision int32) []apperrors.Violation {
	if len(lines) == 0 {
		return nil
	}
	debits, credits := accounting.SumSides(lines)
	if !accounting.RoundMinor(debits, precision).Equal(accounting.RoundMinor(credits, precision)) {
		return []apperrors.Violation{{
			Kind:    apperrors.KindImbalanced,
			Message: fmt.Sprintf("debits %s do not equal credits %s", debits.String(), credits.String()),
			Context: map[string]string{"debits": debits.String(), "credits": credits.String()},
		}}
	}
	return nil
}

func (s *ValidationService) lookupTypeConfig(ctx context.Context, txn *domain.Transaction) (*domain.TransactionTypeConfig, []apperrors.Violation, error) {
	cfg, err := s.typeRepo.FindTypeConfig(ctx, txn.OrgID, txn.TypeCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, []apperrors.Violation{{
				Kind:    apperrors.KindTypeRuleViolation,
				Message: fmt.Sprintf("transaction type %q is not configured", txn.TypeCode),
			}}, nil
		}
		return nil, nil, err
	}
	return cfg, nil, nil
}

func checkTypeRules(txn *domain.Transaction, lines []domain.TransactionLine, cfg *domain.TransactionTypeConfig) []apperrors.Violation {
	var out []apperrors.Violation

	if cfg.RequireReference && txn.Reference == "" {
		out = append(out, apperrors.Violation{
			Kind:    apperrors.KindTypeRuleViolation,
			Message: fmt.Sprintf("type %s requires a reference", cfg.TypeCode),
		})
	}

	for i, l := range lines {
		idx := i
		hasInventoryFields := l.ProductID != nil || l.WarehouseID != nil || l.Direction != "" || !l.Quantity.IsZero()
		if !cfg.InventoryAffecting {
			if hasInventoryFields {
				out = append(out, apperrors.Violation{
					Kind:      apperrors.KindTypeRuleViolation,
					Message:   fmt.Sprintf("type %s does not affect inventory but line carries stock metadata", cfg.TypeCode),
					LineIndex: &idx,
				})
			}
			continue
		}
		if !hasInventoryFields {
			continue
		}
		if !l.HasInventory() {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindTypeRuleViolation,
				Message:   "inventory line must carry product, warehouse and direction",
				LineIndex: &idx,
			})
			continue
		}
		if !l.Quantity.IsPositive() {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindTypeRuleViolation,
				Message:   "inventory line quantity must be positive",
				LineIndex: &idx,
			})
		}
		if l.Direction == domain.MovementIn && l.UnitCost.IsNegative() {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindTypeRuleViolation,
				Message:   "inbound unit cost must not be negative",
				LineIndex: &idx,
			})
		}
	}
	return out
}

func checkSchemaVersion(txn *domain.Transaction, cfg *domain.TransactionTypeConfig) []apperrors.Violation {
	if !cfg.SupportsSchemaVersion(txn.SchemaVersion) {
		return []apperrors.Violation{{
			Kind:    apperrors.KindSchemaVersionMismatch,
			Message: fmt.Sprintf("schema version %d is not supported by type %s", txn.SchemaVersion, cfg.TypeCode),
			Context: map[string]string{"schemaVersion": fmt.Sprintf("%d", txn.SchemaVersion)},
		}}
	}
	return nil
}

func (s *ValidationService) checkAccounts(ctx context.Context, txn *domain.Transaction, lines []domain.TransactionLine, cfg *domain.TransactionTypeConfig) ([]apperrors.Violation, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, txn.OrgID, ids)
	if err != nil {
		return nil, err
	}

	var out []apperrors.Violation
	for i, l := range lines {
		idx := i
		account, ok := accounts[l.AccountID]
		if !ok {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindAccountTypeMismatch,
				Message:   fmt.Sprintf("account %s does not exist in this organization", l.AccountID),
				LineIndex: &idx,
				Context:   map[string]string{"accountID": l.AccountID},
			})
			continue
		}
		if !account.IsActive {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindAccountTypeMismatch,
				Message:   fmt.Sprintf("account %s is inactive", account.Code),
				LineIndex: &idx,
				Context:   map[string]string{"accountID": l.AccountID},
			})
			continue
		}
		if cfg == nil {
			continue
		}
		if !cfg.AllowsAccountType(account.AccountType) {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindAccountTypeMismatch,
				Message:   fmt.Sprintf("type %s does not allow %s accounts", cfg.TypeCode, account.AccountType),
				LineIndex: &idx,
				Context:   map[string]string{"accountID": l.AccountID, "accountType": string(account.AccountType)},
			})
		}
		if prefix, disallowed := cfg.DisallowsAccountCode(account.Code); disallowed {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindTypeRuleViolation,
				Message:   fmt.Sprintf("type %s may not touch accounts with code prefix %q", cfg.TypeCode, prefix),
				LineIndex: &idx,
				Context:   map[string]string{"accountID": l.AccountID, "accountCode": account.Code},
			})
		}
	}
	return out, nil
}

// lookupPrecision resolves the transaction currency's minor unit. An
// unconfigured currency is itself a violation; the default precision keeps
// the dependent checks running.
func (s *ValidationService) lookupPrecision(ctx context.Context, txn *domain.Transaction) (int32, []apperrors.Violation, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, txn.CurrencyCode)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return 0, nil, err
		}
		return domain.DefaultPrecision, []apperrors.Violation{{
			Kind:    apperrors.KindTypeRuleViolation,
			Message: fmt.Sprintf("currency %q is not configured", txn.CurrencyCode),
		}}, nil
	}
	return currency.Precision, nil, nil
}

func checkPrecision(txn *domain.Transaction, lines []domain.TransactionLine, precision int32) []apperrors.Violation {
	var out []apperrors.Violation

	if !txn.ExchangeRate.IsPositive() {
		out = append(out, apperrors.Violation{
			Kind:    apperrors.KindInvalidPrecision,
			Message: "exchange rate must be positive",
		})
	}

	for i, l := range lines {
		idx := i
		if !accounting.RoundTripsExactly(l.Debit, precision) || !accounting.RoundTripsExactly(l.Credit, precision) {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindInvalidPrecision,
				Message:   fmt.Sprintf("amount exceeds %d decimal places for %s", precision, txn.CurrencyCode),
				LineIndex: &idx,
			})
		}
		if !accounting.RoundTripsExactly(l.TaxAmount, precision) {
			out = append(out, apperrors.Violation{
				Kind:      apperrors.KindInvalidPrecision,
				Message:   fmt.Sprintf("tax amount exceeds %d decimal places for %s", precision, txn.CurrencyCode),
				LineIndex: &idx,
			})
		}
	}
	return out
}
