// Package calculator holds the lease payment formulas. Every function is pure:
// no validation, no I/O, no state. Degenerate inputs (a zero lease term,
// incentives above MSRP) flow through the arithmetic untouched.
package calculator

import "lease-agent/domain"

const (
	shortTermMonths        = 36
	shortTermResidualRatio = 0.55
	longTermResidualRatio  = 0.45
)

// SellingPrice derives the selling price from MSRP and dealer incentives.
// It is not floored at zero.
func SellingPrice(msrp, incentives float64) float64 {
	return msrp - incentives
}

// PercentageOff is the discount of sellingPrice against msrp, in percent.
// A zero msrp yields 0.
func PercentageOff(msrp, sellingPrice float64) float64 {
	if msrp == 0 {
		return 0
	}
	return ((msrp - sellingPrice) / msrp) * 100
}

// Taxes is the tax charged on the selling price net of down payment and trade
// equity. A large down payment or trade equity makes it negative.
func Taxes(sellingPrice, downPayment, tradeInValue, tradeInPayoff, taxRate float64) float64 {
	tradeEquity := tradeInValue - tradeInPayoff
	taxableAmount := sellingPrice - downPayment - tradeEquity
	return taxableAmount * taxRate / 100
}

// EstimatedResidual is the default residual the form fills in: 55% of MSRP up
// to 36 months, 45% beyond. CalculateLease never calls it.
func EstimatedResidual(msrp, leaseTerm float64) float64 {
	if leaseTerm <= shortTermMonths {
		return msrp * shortTermResidualRatio
	}
	return msrp * longTermResidualRatio
}

// MonthlyInterestRate converts an annual percentage into the monthly money factor.
func MonthlyInterestRate(interestRate float64) float64 {
	return interestRate / 100 / 12
}

// CalculateLease applies the money-factor lease formula with tax folded into
// the capitalized cost.
func CalculateLease(in domain.LeaseInputs) domain.LeaseCalculation {
	// 1. Tax on the taxable amount
	taxes := Taxes(in.SellingPrice, in.DownPayment, in.TradeInValue, in.TradeInPayoff, in.TaxRate)

	// 2. Net capitalized cost
	netCapitalizedCost := in.SellingPrice -
		in.DownPayment -
		in.TradeInValue +
		in.TradeInPayoff +
		taxes +
		in.TaxesAndFees

	// 3. Residual is whatever the form holds, defaulted or overridden
	residualValue := in.ResidualValue

	// 4. Depreciation and finance fees
	depreciationFee := (netCapitalizedCost - residualValue) / in.LeaseTerm
	financeFee := (netCapitalizedCost + residualValue) * MonthlyInterestRate(in.InterestRate)

	return domain.LeaseCalculation{
		NetCapitalizedCost: netCapitalizedCost,
		ResidualValue:      residualValue,
		DepreciationFee:    depreciationFee,
		FinanceFee:         financeFee,
		MonthlyPayment:     depreciationFee + financeFee,
	}
}
