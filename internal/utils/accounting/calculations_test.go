package accounting

import (
	"testing"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSignedDelta(t *testing.T) {
	debit := domain.TransactionLine{AccountID: "a1", Debit: dec("100.00"), Credit: decimal.Zero}
	credit := domain.TransactionLine{AccountID: "a1", Debit: decimal.Zero, Credit: dec("100.00")}

	cases := []struct {
		name        string
		line        domain.TransactionLine
		accountType domain.AccountType
		want        string
	}{
		{"debit to asset grows it", debit, domain.Asset, "100.00"},
		{"credit to asset shrinks it", credit, domain.Asset, "-100.00"},
		{"debit to expense grows it", debit, domain.Expense, "100.00"},
		{"credit to income grows it", credit, domain.Income, "100.00"},
		{"debit to income shrinks it", debit, domain.Income, "-100.00"},
		{"credit to liability grows it", credit, domain.Liability, "100.00"},
		{"debit to equity shrinks it", debit, domain.Equity, "-100.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SignedDelta(tc.line, tc.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}

	_, err := SignedDelta(debit, domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestRoundMinorHalfUp(t *testing.T) {
	assert.True(t, RoundMinor(dec("1.005"), 2).Equal(dec("1.01")))
	assert.True(t, RoundMinor(dec("1.004"), 2).Equal(dec("1.00")))
	assert.True(t, RoundMinor(dec("99.995"), 2).Equal(dec("100.00")))
	assert.True(t, RoundMinor(dec("7"), 0).Equal(dec("7")))
}

func TestRoundTripsExactly(t *testing.T) {
	assert.True(t, RoundTripsExactly(dec("100.00"), 2))
	assert.True(t, RoundTripsExactly(dec("0.1"), 2))
	assert.False(t, RoundTripsExactly(dec("100.001"), 2))
	assert.False(t, RoundTripsExactly(dec("0.5"), 0))
}

func TestSumSides(t *testing.T) {
	lines := []domain.TransactionLine{
		{Debit: dec("60.00")},
		{Debit: dec("40.00")},
		{Credit: dec("100.00")},
	}
	debits, credits := SumSides(lines)
	assert.True(t, debits.Equal(dec("100.00")))
	assert.True(t, credits.Equal(dec("100.00")))
}

func TestConvertToBaseAssignsResidueToLastLine(t *testing.T) {
	// Three debit lines of 0.10 at rate 1.115 each round to 0.11 (sum 0.33),
	// while the side total 0.30*1.115 rounds to 0.33 as well; force a residue
	// with an uglier rate.
	lines := []domain.TransactionLine{
		{LineNo: 1, Debit: dec("0.10")},
		{LineNo: 2, Debit: dec("0.10")},
		{LineNo: 3, Debit: dec("0.10")},
		{LineNo: 4, Credit: dec("0.30")},
	}
	rate := dec("1.4445")
	out := ConvertToBase(lines, rate, 2)

	// Per line: 0.10 * 1.4445 = 0.14445 -> 0.14; naive sum 0.42.
	// Side total: 0.30 * 1.4445 = 0.43335 -> 0.43. Residue 0.01 lands on line 3.
	assert.True(t, out[0].BaseDebit.Equal(dec("0.14")))
	assert.True(t, out[1].BaseDebit.Equal(dec("0.14")))
	assert.True(t, out[2].BaseDebit.Equal(dec("0.15")), "last debit line absorbs the residue, got %s", out[2].BaseDebit)
	assert.True(t, out[3].BaseCredit.Equal(dec("0.43")))

	baseDebits := out[0].BaseDebit.Add(out[1].BaseDebit).Add(out[2].BaseDebit)
	assert.True(t, baseDebits.Equal(out[3].BaseCredit), "base sides must balance")
}

func TestConvertToBaseIdentityRate(t *testing.T) {
	lines := []domain.TransactionLine{
		{LineNo: 1, Debit: dec("100.00")},
		{LineNo: 2, Credit: dec("100.00")},
	}
	out := ConvertToBase(lines, dec("1"), 2)
	assert.True(t, out[0].BaseDebit.Equal(dec("100.00")))
	assert.True(t, out[1].BaseCredit.Equal(dec("100.00")))
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 @ 5.00 on hand, receive 10 @ 7.00 -> avg 6.00
	avg := WeightedAverageCost(dec("10"), dec("5.00"), dec("10"), dec("7.00"))
	assert.True(t, avg.Equal(dec("6.00")), "got %s", avg)

	// Empty stock takes the incoming cost.
	avg = WeightedAverageCost(decimal.Zero, decimal.Zero, dec("4"), dec("2.50"))
	assert.True(t, avg.Equal(dec("2.50")))

	// Uneven quantities keep 8 decimal places.
	avg = WeightedAverageCost(dec("3"), dec("1.00"), dec("1"), dec("2.00"))
	assert.True(t, avg.Equal(dec("1.25")))
}

func TestApplyStockMovement(t *testing.T) {
	level := domain.StockLevel{OrgID: "org-1", ProductID: "prod-1", WarehouseID: "wh-1", OnHand: dec("10"), AvgCost: dec("5.00")}

	t.Run("inbound recomputes the weighted average", func(t *testing.T) {
		line := domain.TransactionLine{LineNo: 1, Direction: domain.MovementIn, Quantity: dec("10"), UnitCost: dec("7.00")}
		updated, unitCost, err := ApplyStockMovement(level, line, false)
		require.NoError(t, err)
		assert.True(t, updated.OnHand.Equal(dec("20")))
		assert.True(t, updated.AvgCost.Equal(dec("6.00")), "got %s", updated.AvgCost)
		assert.True(t, unitCost.Equal(dec("7.00")), "inbound movement records the supplied cost")
	})

	t.Run("outbound consumes at the running average", func(t *testing.T) {
		line := domain.TransactionLine{LineNo: 1, Direction: domain.MovementOut, Quantity: dec("4"), UnitCost: dec("9.99")}
		updated, unitCost, err := ApplyStockMovement(level, line, false)
		require.NoError(t, err)
		assert.True(t, updated.OnHand.Equal(dec("6")))
		assert.True(t, updated.AvgCost.Equal(dec("5.00")), "outbound must not move the average")
		assert.True(t, unitCost.Equal(dec("5.00")), "outbound movement records the average, not the line cost")
	})

	t.Run("insufficient stock is rejected", func(t *testing.T) {
		line := domain.TransactionLine{LineNo: 2, Direction: domain.MovementOut, Quantity: dec("11")}
		_, _, err := ApplyStockMovement(level, line, false)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNegativeStock, apperrors.KindOf(err))
	})

	t.Run("exact depletion to zero is allowed", func(t *testing.T) {
		line := domain.TransactionLine{LineNo: 2, Direction: domain.MovementOut, Quantity: dec("10")}
		updated, _, err := ApplyStockMovement(level, line, false)
		require.NoError(t, err)
		assert.True(t, updated.OnHand.IsZero())
	})

	t.Run("tenant policy can allow negative on-hand", func(t *testing.T) {
		line := domain.TransactionLine{LineNo: 2, Direction: domain.MovementOut, Quantity: dec("11")}
		updated, _, err := ApplyStockMovement(level, line, true)
		require.NoError(t, err)
		assert.True(t, updated.OnHand.Equal(dec("-1")))
	})

	t.Run("unknown direction is an error", func(t *testing.T) {
		line := domain.TransactionLine{LineNo: 3, Direction: domain.MovementDirection("SIDEWAYS"), Quantity: dec("1")}
		_, _, err := ApplyStockMovement(level, line, false)
		assert.Error(t, err)
	})
}
