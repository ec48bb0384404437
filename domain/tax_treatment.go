package domain

// TaxTreatment selects which lease formula a caller wants.
type TaxTreatment string

const (
	// CapCostInclusive taxes the capitalized cost once, up front.
	CapCostInclusive TaxTreatment = "cap_cost_inclusive"
	// PaymentInclusive taxes every monthly payment.
	PaymentInclusive TaxTreatment = "payment_inclusive"
)

func (t TaxTreatment) Valid() bool {
	return t == CapCostInclusive || t == PaymentInclusive
}

// DealTerms is the vocabulary shared by both formulas. AdditionalFees maps to
// TaxesAndFees on the cap-cost side.
type DealTerms struct {
	MSRP             float64 `json:"msrp"`
	SellingPrice     float64 `json:"sellingPrice"`
	DealerIncentives float64 `json:"dealerIncentives"`
	DownPayment      float64 `json:"downPayment"`
	TradeInValue     float64 `json:"tradeInValue"`
	TradeInPayoff    float64 `json:"tradeInPayoff"`
	ResidualValue    float64 `json:"residualValue"`
	InterestRate     float64 `json:"interestRate"`
	LeaseTerm        int     `json:"leaseTerm"`
	TaxRate          float64 `json:"taxRate"`
	AdditionalFees   float64 `json:"additionalFees"`
}

// LeaseInputs projects the terms onto the interactive calculator.
func (t DealTerms) LeaseInputs() LeaseInputs {
	return LeaseInputs{
		VehiclePrice:     t.MSRP,
		DealerIncentives: t.DealerIncentives,
		SellingPrice:     t.SellingPrice,
		DownPayment:      t.DownPayment,
		TradeInValue:     t.TradeInValue,
		TradeInPayoff:    t.TradeInPayoff,
		InterestRate:     t.InterestRate,
		LeaseTerm:        float64(t.LeaseTerm),
		TaxRate:          t.TaxRate,
		TaxesAndFees:     t.AdditionalFees,
		ResidualValue:    t.ResidualValue,
	}
}

// Offer projects the terms onto a stored offer record. Trade-in values have no
// column on offers and are dropped.
func (t DealTerms) Offer() Offer {
	term := t.LeaseTerm
	return Offer{
		MSRP:             Float(t.MSRP),
		SellingPrice:     Float(t.SellingPrice),
		DealerIncentives: Float(t.DealerIncentives),
		DownPayment:      Float(t.DownPayment),
		ResidualValue:    Float(t.ResidualValue),
		InterestRate:     Float(t.InterestRate),
		LeaseTerm:        &term,
		TaxRate:          Float(t.TaxRate),
		AdditionalFees:   Float(t.AdditionalFees),
	}
}
