package cmd

import (
	"encoding/json"
	"math"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"lease-agent/calculator"
	"lease-agent/domain"
	"lease-agent/repository"
	"lease-agent/service"
)

const treatmentBoth = "both"

// leaseFlags maps each lease field to its flag, in form order.
var leaseFlags = []struct {
	field domain.LeaseField
	name  string
	usage string
}{
	{domain.FieldVehiclePrice, "vehicle-price", "vehicle price (MSRP)"},
	{domain.FieldDealerIncentives, "dealer-incentives", "dealer incentives"},
	{domain.FieldSellingPrice, "selling-price", "negotiated selling price"},
	{domain.FieldDownPayment, "down-payment", "down payment"},
	{domain.FieldTradeInValue, "trade-in-value", "trade-in value"},
	{domain.FieldTradeInPayoff, "trade-in-payoff", "trade-in payoff"},
	{domain.FieldInterestRate, "interest-rate", "annual interest rate, percent"},
	{domain.FieldLeaseTerm, "lease-term", "lease term in months"},
	{domain.FieldTaxRate, "tax-rate", "sales tax rate, percent"},
	{domain.FieldTaxesAndFees, "taxes-and-fees", "fees added to the capitalized cost"},
	{domain.FieldResidualValue, "residual-value", "residual value"},
}

func newQuoteCommand() *cobra.Command {
	values := domain.DefaultLeaseInputs()
	treatment := string(domain.CapCostInclusive)

	c := &cobra.Command{
		Use:   "quote",
		Short: "Calculate a lease payment and print it as JSON",
		Long: "Calculate a lease payment and print it as JSON. Flags are applied to the default " +
			"form in form order, so a new vehicle price or term re-derives the selling price and " +
			"residual unless those are given too.",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := calculator.DefaultForm()
			for _, f := range leaseFlags {
				if !cmd.Flags().Changed(f.name) {
					continue
				}
				next, err := form.Set(f.field, *values.Field(f.field))
				if err != nil {
					return err
				}
				form = next
			}

			result, err := quote(cmd, form.Inputs(), domain.TaxTreatment(treatment))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	fs := &pflag.FlagSet{}
	for _, f := range leaseFlags {
		fs.Float64Var(values.Field(f.field), f.name, *values.Field(f.field), f.usage)
	}
	fs.StringVar(&treatment, "tax-treatment", treatment, "cap_cost_inclusive, payment_inclusive or both")
	c.Flags().AddFlagSet(fs)
	return c
}

func quote(cmd *cobra.Command, inputs domain.LeaseInputs, treatment domain.TaxTreatment) (any, error) {
	svc := service.NewLeaseService(repository.NewNoopQuoteRecorder(), zap.NewNop())

	if treatment == domain.CapCostInclusive {
		return svc.Quote(cmd.Context(), inputs)
	}

	if inputs.LeaseTerm != math.Trunc(inputs.LeaseTerm) {
		return nil, errors.Errorf("lease-term must be a whole number of months for %s", treatment)
	}
	terms := domain.DealTerms{
		MSRP:             inputs.VehiclePrice,
		SellingPrice:     inputs.SellingPrice,
		DealerIncentives: inputs.DealerIncentives,
		DownPayment:      inputs.DownPayment,
		TradeInValue:     inputs.TradeInValue,
		TradeInPayoff:    inputs.TradeInPayoff,
		ResidualValue:    inputs.ResidualValue,
		InterestRate:     inputs.InterestRate,
		LeaseTerm:        int(inputs.LeaseTerm),
		TaxRate:          inputs.TaxRate,
		AdditionalFees:   inputs.TaxesAndFees,
	}

	if string(treatment) == treatmentBoth {
		return svc.CompareTreatments(terms)
	}
	payment, err := svc.MonthlyPayment(treatment, terms)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"taxTreatment":   treatment,
		"monthlyPayment": payment,
	}, nil
}
