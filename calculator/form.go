package calculator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"lease-agent/domain"
)

// Form is an immutable calculator snapshot: the inputs and the calculation
// derived from them. Editing a field returns a new Form.
type Form struct {
	inputs      domain.LeaseInputs
	calculation domain.LeaseCalculation
}

// NewForm derives the calculation for inputs.
func NewForm(inputs domain.LeaseInputs) Form {
	return Form{inputs: inputs, calculation: CalculateLease(inputs)}
}

// DefaultForm starts from the default form values.
func DefaultForm() Form {
	return NewForm(domain.DefaultLeaseInputs())
}

func (f Form) Inputs() domain.LeaseInputs {
	return f.inputs
}

func (f Form) Calculation() domain.LeaseCalculation {
	return f.calculation
}

// PercentageOff is the selling price discount shown next to the selling price.
func (f Form) PercentageOff() float64 {
	return PercentageOff(f.inputs.VehiclePrice, f.inputs.SellingPrice)
}

// Set assigns value to field, applies the coupled defaults and recomputes:
//
//	vehiclePrice     -> sellingPrice, residualValue
//	dealerIncentives -> sellingPrice
//	leaseTerm        -> residualValue
//
// Cascades read the other fields from the snapshot before the edit.
func (f Form) Set(field domain.LeaseField, value float64) (Form, error) {
	prev := f.inputs
	next := f.inputs

	target := next.Field(field)
	if target == nil {
		return f, fmt.Errorf("%w: %q", domain.ErrUnknownLeaseField, field)
	}
	*target = value

	switch field {
	case domain.FieldVehiclePrice:
		next.SellingPrice = SellingPrice(value, prev.DealerIncentives)
		next.ResidualValue = EstimatedResidual(value, prev.LeaseTerm)
	case domain.FieldDealerIncentives:
		next.SellingPrice = SellingPrice(prev.VehiclePrice, value)
	case domain.FieldLeaseTerm:
		next.ResidualValue = EstimatedResidual(prev.VehiclePrice, value)
	}

	return NewForm(next), nil
}

// SetString is Set for raw form text, read with ParseAmount.
func (f Form) SetString(field domain.LeaseField, raw string) (Form, error) {
	return f.Set(field, ParseAmount(raw))
}

// leadingNumber matches the decimal number a form value starts with, so
// "1,500" reads as 1 and "42.5kg" as 42.5. Words like NaN or Infinity never match.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the leading number of a form value. Text without one,
// or a number that overflows, counts as 0 so the inputs stay finite.
func ParseAmount(raw string) float64 {
	m := leadingNumber.FindString(strings.TrimLeft(raw, " \t\n\r\f\v"))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
