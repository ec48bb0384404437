package domain

// LeaseInputs is one snapshot of the lease calculator form.
// Percentages are whole-number scaled: 4.5 means 4.5%.
type LeaseInputs struct {
	VehiclePrice     float64 `json:"vehiclePrice"`
	DealerIncentives float64 `json:"dealerIncentives"`
	SellingPrice     float64 `json:"sellingPrice"`
	DownPayment      float64 `json:"downPayment"`
	TradeInValue     float64 `json:"tradeInValue"`
	TradeInPayoff    float64 `json:"tradeInPayoff"`
	InterestRate     float64 `json:"interestRate"`
	LeaseTerm        float64 `json:"leaseTerm"`
	TaxRate          float64 `json:"taxRate"`
	TaxesAndFees     float64 `json:"taxesAndFees"`
	ResidualValue    float64 `json:"residualValue"`
}

// LeaseCalculation is derived from a LeaseInputs snapshot.
type LeaseCalculation struct {
	NetCapitalizedCost float64 `json:"netCapitalizedCost"`
	ResidualValue      float64 `json:"residualValue"`
	DepreciationFee    float64 `json:"depreciationFee"`
	FinanceFee         float64 `json:"financeFee"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
}

// DefaultLeaseInputs returns the values the calculator form starts with.
func DefaultLeaseInputs() LeaseInputs {
	return LeaseInputs{
		VehiclePrice:     30000,
		DealerIncentives: 2000,
		SellingPrice:     28000,
		DownPayment:      3000,
		TradeInValue:     0,
		TradeInPayoff:    0,
		InterestRate:     4.5,
		LeaseTerm:        36,
		TaxRate:          8.5,
		TaxesAndFees:     1500,
		ResidualValue:    16500, // 55% of 30000
	}
}

// LeaseField names one editable field of LeaseInputs.
type LeaseField string

const (
	FieldVehiclePrice     LeaseField = "vehiclePrice"
	FieldDealerIncentives LeaseField = "dealerIncentives"
	FieldSellingPrice     LeaseField = "sellingPrice"
	FieldDownPayment      LeaseField = "downPayment"
	FieldTradeInValue     LeaseField = "tradeInValue"
	FieldTradeInPayoff    LeaseField = "tradeInPayoff"
	FieldInterestRate     LeaseField = "interestRate"
	FieldLeaseTerm        LeaseField = "leaseTerm"
	FieldTaxRate          LeaseField = "taxRate"
	FieldTaxesAndFees     LeaseField = "taxesAndFees"
	FieldResidualValue    LeaseField = "residualValue"
)

// LeaseFields lists every editable field in form order.
var LeaseFields = []LeaseField{
	FieldVehiclePrice,
	FieldDealerIncentives,
	FieldSellingPrice,
	FieldDownPayment,
	FieldTradeInValue,
	FieldTradeInPayoff,
	FieldInterestRate,
	FieldLeaseTerm,
	FieldTaxRate,
	FieldTaxesAndFees,
	FieldResidualValue,
}

// Field returns a pointer to the named field, or nil if the name is unknown.
func (in *LeaseInputs) Field(f LeaseField) *float64 {
	switch f {
	case FieldVehiclePrice:
		return &in.VehiclePrice
	case FieldDealerIncentives:
		return &in.DealerIncentives
	case FieldSellingPrice:
		return &in.SellingPrice
	case FieldDownPayment:
		return &in.DownPayment
	case FieldTradeInValue:
		return &in.TradeInValue
	case FieldTradeInPayoff:
		return &in.TradeInPayoff
	case FieldInterestRate:
		return &in.InterestRate
	case FieldLeaseTerm:
		return &in.LeaseTerm
	case FieldTaxRate:
		return &in.TaxRate
	case FieldTaxesAndFees:
		return &in.TaxesAndFees
	case FieldResidualValue:
		return &in.ResidualValue
	}
	return nil
}
