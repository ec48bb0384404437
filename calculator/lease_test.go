package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-agent/domain"
)

const tolerance = 1e-6

func TestCalculateLease_Defaults(t *testing.T) {
	in := domain.DefaultLeaseInputs()

	calc := CalculateLease(in)

	assert.InDelta(t, 2125.0, Taxes(in.SellingPrice, in.DownPayment, in.TradeInValue, in.TradeInPayoff, in.TaxRate), tolerance)
	assert.InDelta(t, 28625.0, calc.NetCapitalizedCost, tolerance)
	assert.InDelta(t, 16500.0, calc.ResidualValue, tolerance)
	assert.InDelta(t, 12125.0/36, calc.DepreciationFee, tolerance)
	assert.InDelta(t, 169.21875, calc.FinanceFee, tolerance)
	assert.InDelta(t, 506.02, calc.MonthlyPayment, 0.005)
	assert.InDelta(t, calc.DepreciationFee+calc.FinanceFee, calc.MonthlyPayment, tolerance)
}

func TestCalculateLease_Deterministic(t *testing.T) {
	in := domain.LeaseInputs{
		VehiclePrice:     51234.56,
		DealerIncentives: 1789.01,
		SellingPrice:     49445.55,
		DownPayment:      2500,
		TradeInValue:     8000,
		TradeInPayoff:    3100.25,
		InterestRate:     6.19,
		LeaseTerm:        39,
		TaxRate:          7.25,
		TaxesAndFees:     995,
		ResidualValue:    28000,
	}

	first := CalculateLease(in)
	second := CalculateLease(in)

	assert.Equal(t, first, second)
}

func TestCalculateLease_ResidualIsPassThrough(t *testing.T) {
	in := domain.DefaultLeaseInputs()
	in.ResidualValue = 12345

	calc := CalculateLease(in)

	assert.Equal(t, 12345.0, calc.ResidualValue)
	assert.NotEqual(t, EstimatedResidual(in.VehiclePrice, in.LeaseTerm), calc.ResidualValue)
}

func TestCalculateLease_TradeIn(t *testing.T) {
	in := domain.DefaultLeaseInputs()
	in.TradeInValue = 5000
	in.TradeInPayoff = 2000

	calc := CalculateLease(in)

	// taxable = 28000 - 3000 - 3000
	taxes := 22000 * 8.5 / 100
	expectedNetCap := 28000.0 - 3000 - 5000 + 2000 + taxes + 1500
	assert.InDelta(t, expectedNetCap, calc.NetCapitalizedCost, tolerance)
}

func TestCalculateLease_ZeroTermIsNotFinite(t *testing.T) {
	in := domain.DefaultLeaseInputs()
	in.LeaseTerm = 0

	calc := CalculateLease(in)

	assert.True(t, math.IsInf(calc.DepreciationFee, 1))
	assert.True(t, math.IsInf(calc.MonthlyPayment, 1))
}

func TestCalculateLease_ZeroTermZeroDepreciationIsNaN(t *testing.T) {
	in := domain.LeaseInputs{LeaseTerm: 0}

	calc := CalculateLease(in)

	assert.True(t, math.IsNaN(calc.DepreciationFee))
}

func TestSellingPrice_NotFloored(t *testing.T) {
	assert.Equal(t, 38000.0, SellingPrice(40000, 2000))
	assert.Equal(t, -500.0, SellingPrice(1000, 1500))
}

func TestPercentageOff(t *testing.T) {
	assert.InDelta(t, 6.666666, PercentageOff(30000, 28000), 1e-5)
	assert.Equal(t, 0.0, PercentageOff(0, 28000))
	assert.Equal(t, 0.0, PercentageOff(0, -5))
	assert.False(t, math.IsNaN(PercentageOff(0, 0)))
}

func TestTaxes_NegativeTaxableAmount(t *testing.T) {
	tax := Taxes(10000, 12000, 5000, 0, 10)

	assert.InDelta(t, -700.0, tax, tolerance)
}

func TestEstimatedResidual(t *testing.T) {
	assert.Equal(t, 16500.0, EstimatedResidual(30000, 36))
	assert.Equal(t, 16500.0, EstimatedResidual(30000, 24))
	assert.Equal(t, 13500.0, EstimatedResidual(30000, 37))
	assert.Equal(t, 18000.0, EstimatedResidual(40000, 48))
}

func TestMonthlyInterestRate(t *testing.T) {
	require.InDelta(t, 0.00375, MonthlyInterestRate(4.5), 1e-12)
}
