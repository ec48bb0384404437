package calculator

import (
	"fmt"

	"lease-agent/domain"
)

// MonthlyPayment computes the monthly payment for terms under the requested
// tax treatment. The two treatments give different answers whenever the tax
// rate is non-zero; callers must pick one.
func MonthlyPayment(treatment domain.TaxTreatment, terms domain.DealTerms) (float64, error) {
	switch treatment {
	case domain.CapCostInclusive:
		return CalculateLease(terms.LeaseInputs()).MonthlyPayment, nil
	case domain.PaymentInclusive:
		return OfferMonthlyPayment(terms.Offer()), nil
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownTaxTreatment, treatment)
}

// OfferPayment computes the payment breakdown of a stored offer under the
// requested treatment. Under CapCostInclusive the offer's terms are run through
// CalculateLease and the totals are derived from its monthly payment.
func OfferPayment(treatment domain.TaxTreatment, o domain.Offer) (domain.OfferPayment, error) {
	switch treatment {
	case domain.PaymentInclusive:
		return OfferBreakdown(o), nil
	case domain.CapCostInclusive:
		t := NormalizeOffer(o)
		calc := CalculateLease(domain.LeaseInputs{
			VehiclePrice:     valueOrZero(o.MSRP),
			DealerIncentives: t.DealerIncentives,
			SellingPrice:     t.SellingPrice,
			DownPayment:      t.DownPayment,
			InterestRate:     t.InterestRate,
			LeaseTerm:        t.LeaseTerm,
			TaxRate:          t.TaxRate,
			TaxesAndFees:     t.AdditionalFees,
			ResidualValue:    t.ResidualValue,
		})
		totalCost := calc.MonthlyPayment*t.LeaseTerm + t.DownPayment
		return domain.OfferPayment{
			Depreciation:            calc.NetCapitalizedCost - calc.ResidualValue,
			MonthlyDepreciation:     calc.DepreciationFee,
			MonthlyFinanceCharge:    calc.FinanceFee,
			BaseMonthlyPayment:      calc.MonthlyPayment,
			MonthlyPayment:          calc.MonthlyPayment,
			TotalCost:               totalCost,
			EffectiveMonthlyPayment: totalCost / t.LeaseTerm,
		}, nil
	}
	return domain.OfferPayment{}, fmt.Errorf("%w: %q", domain.ErrUnknownTaxTreatment, treatment)
}
