package domain

import "time"

// LeaseQuote is one recorded run of the calculator.
type LeaseQuote struct {
	ID           int64            `json:"id"`
	Inputs       LeaseInputs      `json:"inputs"`
	Calculation  LeaseCalculation `json:"calculation"`
	TaxTreatment TaxTreatment     `json:"taxTreatment"`
	CreatedAt    time.Time        `json:"createdAt"`
}
