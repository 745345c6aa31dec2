package accounting

import (
	"fmt"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedDelta returns the change a line applies to its account's running
// balance, signed toward the account's natural side. This is used in both
// services and repositories so the same convention holds everywhere.
//
// Debit-natured accounts (ASSET, EXPENSE): +debit, -credit.
// Credit-natured accounts (LIABILITY, EQUITY, INCOME): +credit, -debit.
func SignedDelta(line domain.TransactionLine, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return line.Debit.Sub(line.Credit), nil
	case domain.Liability, domain.Equity, domain.Income:
		return line.Credit.Sub(line.Debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
}

// RoundMinor rounds an amount to the currency's minor unit using half-up.
// shopspring's Round is half-away-from-zero, which coincides with half-up for
// the non-negative amounts the engine allows on lines.
func RoundMinor(amount decimal.Decimal, precision int32) decimal.Decimal {
	return amount.Round(precision)
}

// RoundTripsExactly reports whether an amount is already representable at the
// given minor-unit precision, i.e. rounding does not change it.
func RoundTripsExactly(amount decimal.Decimal, precision int32) bool {
	return amount.Equal(amount.Round(precision))
}

// SumSides totals the debit and credit columns of the given lines.
func SumSides(lines []domain.TransactionLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// ConvertToBase fills BaseDebit/BaseCredit on every line by multiplying with
// the header exchange rate and rounding half-up at the base currency's minor
// unit. Any sub-minor-unit residue between the rounded side totals is
// assigned to the last line of each side, so the base sides balance exactly
// whenever the transaction sides balance.
func ConvertToBase(lines []domain.TransactionLine, rate decimal.Decimal, precision int32) []domain.TransactionLine {
	out := make([]domain.TransactionLine, len(lines))
	copy(out, lines)

	totalDebit, totalCredit := SumSides(lines)
	targetDebit := totalDebit.Mul(rate).Round(precision)
	targetCredit := totalCredit.Mul(rate).Round(precision)

	lastDebit, lastCredit := -1, -1
	sumBaseDebit, sumBaseCredit := decimal.Zero, decimal.Zero
	for i := range out {
		out[i].BaseDebit = out[i].Debit.Mul(rate).Round(precision)
		out[i].BaseCredit = out[i].Credit.Mul(rate).Round(precision)
		sumBaseDebit = sumBaseDebit.Add(out[i].BaseDebit)
		sumBaseCredit = sumBaseCredit.Add(out[i].BaseCredit)
		if out[i].Debit.IsPositive() {
			lastDebit = i
		}
		if out[i].Credit.IsPositive() {
			lastCredit = i
		}
	}

	if lastDebit >= 0 {
		out[lastDebit].BaseDebit = out[lastDebit].BaseDebit.Add(targetDebit.Sub(sumBaseDebit))
	}
	if lastCredit >= 0 {
		out[lastCredit].BaseCredit = out[lastCredit].BaseCredit.Add(targetCredit.Sub(sumBaseCredit))
	}
	return out
}

// WeightedAverageCost recomputes the average unit cost after an inbound
// movement: (old_qty*old_avg + moved_qty*moved_cost) / (old_qty + moved_qty).
// Outbound movements consume at the current average and never call this.
func WeightedAverageCost(oldQty, oldAvg, movedQty, movedCost decimal.Decimal) decimal.Decimal {
	newQty := oldQty.Add(movedQty)
	if !newQty.IsPositive() {
		return movedCost
	}
	total := oldQty.Mul(oldAvg).Add(movedQty.Mul(movedCost))
	return total.DivRound(newQty, 8)
}

// ApplyStockMovement applies one inventory line to a stock level and returns
// the updated level plus the unit cost to record on the movement: the
// supplied cost for inbound lines, the running average for outbound ones.
// An outbound line that would take on-hand below zero fails with
// NEGATIVE_STOCK unless the tenant allows it.
func ApplyStockMovement(level domain.StockLevel, line domain.TransactionLine, allowNegative bool) (domain.StockLevel, decimal.Decimal, error) {
	switch line.Direction {
	case domain.MovementIn:
		level.AvgCost = WeightedAverageCost(level.OnHand, level.AvgCost, line.Quantity, line.UnitCost)
		level.OnHand = level.OnHand.Add(line.Quantity)
		return level, line.UnitCost, nil
	case domain.MovementOut:
		newOnHand := level.OnHand.Sub(line.Quantity)
		if newOnHand.IsNegative() && !allowNegative {
			return level, decimal.Zero, apperrors.Newf(apperrors.KindNegativeStock, "stock of product %s in warehouse %s would go negative", level.ProductID, level.WarehouseID).
				WithContext("productID", level.ProductID).
				WithContext("warehouseID", level.WarehouseID).
				WithContext("onHand", level.OnHand.String()).
				WithContext("requested", line.Quantity.String())
		}
		unitCost := level.AvgCost
		level.OnHand = newOnHand
		return level, unitCost, nil
	default:
		return level, decimal.Zero, fmt.Errorf("line %d carries unknown movement direction %q", line.LineNo, line.Direction)
	}
}
