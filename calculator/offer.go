package calculator

import "lease-agent/domain"

// DefaultLeaseTerm is used when a stored offer has no lease term.
const DefaultLeaseTerm = 36

// OfferTerms are the numeric columns of an offer with nulls coerced.
type OfferTerms struct {
	SellingPrice     float64
	ResidualValue    float64
	InterestRate     float64
	LeaseTerm        float64
	DownPayment      float64
	DealerIncentives float64
	AdditionalFees   float64
	TaxRate          float64
}

// NormalizeOffer coerces absent numeric fields to 0 and an absent lease term
// to DefaultLeaseTerm.
func NormalizeOffer(o domain.Offer) OfferTerms {
	term := DefaultLeaseTerm
	if o.LeaseTerm != nil {
		term = *o.LeaseTerm
	}
	return OfferTerms{
		SellingPrice:     valueOrZero(o.SellingPrice),
		ResidualValue:    valueOrZero(o.ResidualValue),
		InterestRate:     valueOrZero(o.InterestRate),
		LeaseTerm:        float64(term),
		DownPayment:      valueOrZero(o.DownPayment),
		DealerIncentives: valueOrZero(o.DealerIncentives),
		AdditionalFees:   valueOrZero(o.AdditionalFees),
		TaxRate:          valueOrZero(o.TaxRate),
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// OfferBreakdown computes the payment of a stored offer with tax applied to
// each monthly payment, keeping every intermediate value.
func OfferBreakdown(o domain.Offer) domain.OfferPayment {
	t := NormalizeOffer(o)

	depreciation := t.SellingPrice - t.ResidualValue - t.DealerIncentives
	monthlyDepreciation := depreciation / t.LeaseTerm

	monthlyFinanceCharge := (t.SellingPrice + t.ResidualValue) * (t.InterestRate / 100) / 12

	baseMonthlyPayment := monthlyDepreciation + monthlyFinanceCharge

	monthlyFees := t.AdditionalFees / t.LeaseTerm
	monthlyTax := (baseMonthlyPayment + monthlyFees) * (t.TaxRate / 100)
	monthlyPayment := baseMonthlyPayment + monthlyFees + monthlyTax

	totalCost := monthlyPayment*t.LeaseTerm + t.DownPayment

	return domain.OfferPayment{
		Depreciation:            depreciation,
		MonthlyDepreciation:     monthlyDepreciation,
		MonthlyFinanceCharge:    monthlyFinanceCharge,
		BaseMonthlyPayment:      baseMonthlyPayment,
		MonthlyFees:             monthlyFees,
		MonthlyTax:              monthlyTax,
		MonthlyPayment:          monthlyPayment,
		TotalCost:               totalCost,
		EffectiveMonthlyPayment: totalCost / t.LeaseTerm,
	}
}

// OfferMonthlyPayment is the payment-inclusive monthly payment of an offer.
func OfferMonthlyPayment(o domain.Offer) float64 {
	return OfferBreakdown(o).MonthlyPayment
}

// OfferTotalCost is every payment over the term plus the down payment.
func OfferTotalCost(o domain.Offer) float64 {
	return OfferBreakdown(o).TotalCost
}

// OfferEffectiveMonthlyPayment spreads the total cost, down payment included,
// over the term.
func OfferEffectiveMonthlyPayment(o domain.Offer) float64 {
	return OfferBreakdown(o).EffectiveMonthlyPayment
}
