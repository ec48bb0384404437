package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lease-agent/domain"
)

func scenarioOffer() domain.Offer {
	term := 36
	return domain.Offer{
		ProductTitle:     "2025 Model Y",
		SellingPrice:     domain.Float(42000),
		ResidualValue:    domain.Float(25000),
		DealerIncentives: domain.Float(1000),
		LeaseTerm:        &term,
		InterestRate:     domain.Float(2.99),
		AdditionalFees:   domain.Float(500),
		TaxRate:          domain.Float(8.25),
	}
}

func TestOfferBreakdown_Scenario(t *testing.T) {
	p := OfferBreakdown(scenarioOffer())

	assert.InDelta(t, 16000.0, p.Depreciation, tolerance)
	assert.InDelta(t, 444.444444, p.MonthlyDepreciation, 1e-5)
	assert.InDelta(t, 166.941667, p.MonthlyFinanceCharge, 1e-5)
	assert.InDelta(t, 611.386111, p.BaseMonthlyPayment, 1e-5)
	assert.InDelta(t, 13.888889, p.MonthlyFees, 1e-5)
	assert.InDelta(t, 51.585188, p.MonthlyTax, 1e-5)
	assert.InDelta(t, 676.86, p.MonthlyPayment, 0.005)
	assert.Equal(t, p.MonthlyPayment, OfferMonthlyPayment(scenarioOffer()))
}

func TestOfferTotalCost(t *testing.T) {
	o := scenarioOffer()
	o.DownPayment = domain.Float(2000)

	monthly := OfferMonthlyPayment(o)

	assert.InDelta(t, monthly*36+2000, OfferTotalCost(o), tolerance)
	assert.InDelta(t, (monthly*36+2000)/36, OfferEffectiveMonthlyPayment(o), tolerance)
}

func TestOfferBreakdown_NullCoercion(t *testing.T) {
	o := scenarioOffer()
	o.AdditionalFees = nil
	o.LeaseTerm = nil

	var p domain.OfferPayment
	assert.NotPanics(t, func() { p = OfferBreakdown(o) })

	assert.Equal(t, 0.0, p.MonthlyFees)
	assert.InDelta(t, 16000.0/36, p.MonthlyDepreciation, tolerance)
}

func TestOfferBreakdown_EmptyOffer(t *testing.T) {
	p := OfferBreakdown(domain.Offer{ProductTitle: "blank"})

	assert.Equal(t, domain.OfferPayment{}, p)
}

func TestNormalizeOffer_Defaults(t *testing.T) {
	terms := NormalizeOffer(domain.Offer{})

	assert.Equal(t, OfferTerms{LeaseTerm: DefaultLeaseTerm}, terms)
}
