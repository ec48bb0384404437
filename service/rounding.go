package service

import (
	"math"

	"github.com/shopspring/decimal"

	"lease-agent/domain"
)

// roundTo2Decimals rounds half away from zero on the decimal value, so 0.125
// becomes 0.13 instead of suffering float64 representation error.
func roundTo2Decimals(value float64) float64 {
	return roundTo(value, 2)
}

func roundTo(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

func roundCalculation(c domain.LeaseCalculation) domain.LeaseCalculation {
	return domain.LeaseCalculation{
		NetCapitalizedCost: roundTo2Decimals(c.NetCapitalizedCost),
		ResidualValue:      roundTo2Decimals(c.ResidualValue),
		DepreciationFee:    roundTo2Decimals(c.DepreciationFee),
		FinanceFee:         roundTo2Decimals(c.FinanceFee),
		MonthlyPayment:     roundTo2Decimals(c.MonthlyPayment),
	}
}

func roundPayment(p domain.OfferPayment) domain.OfferPayment {
	return domain.OfferPayment{
		Depreciation:            roundTo2Decimals(p.Depreciation),
		MonthlyDepreciation:     roundTo2Decimals(p.MonthlyDepreciation),
		MonthlyFinanceCharge:    roundTo2Decimals(p.MonthlyFinanceCharge),
		BaseMonthlyPayment:      roundTo2Decimals(p.BaseMonthlyPayment),
		MonthlyFees:             roundTo2Decimals(p.MonthlyFees),
		MonthlyTax:              roundTo2Decimals(p.MonthlyTax),
		MonthlyPayment:          roundTo2Decimals(p.MonthlyPayment),
		TotalCost:               roundTo2Decimals(p.TotalCost),
		EffectiveMonthlyPayment: roundTo2Decimals(p.EffectiveMonthlyPayment),
	}
}
