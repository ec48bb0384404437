package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"lease-agent/calculator"
	"lease-agent/domain"
	"lease-agent/metrics"
	"lease-agent/repository"
)

// LeaseQuote is the API view of one calculator run. Amounts are rounded to
// cents; the recorded history keeps the raw values.
type LeaseQuote struct {
	Inputs        domain.LeaseInputs      `json:"inputs"`
	Calculation   domain.LeaseCalculation `json:"calculation"`
	PercentageOff float64                 `json:"percentageOff"`
}

// TreatmentComparison puts both tax treatments side by side for the same terms.
type TreatmentComparison struct {
	Terms             domain.DealTerms `json:"terms"`
	CapCostInclusive  float64          `json:"capCostInclusive"`
	PaymentInclusive  float64          `json:"paymentInclusive"`
	MonthlyDifference float64          `json:"monthlyDifference"`
}

type LeaseService struct {
	recorder repository.QuoteRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeaseService creates a LeaseService recording quotes to recorder.
func NewLeaseService(recorder repository.QuoteRecorder, logger *zap.Logger) *LeaseService {
	return &LeaseService{
		recorder: recorder,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Quote calculates the cap-cost-inclusive lease for inputs.
func (s *LeaseService) Quote(ctx context.Context, inputs domain.LeaseInputs) (LeaseQuote, error) {
	if err := validateLeaseInputs(inputs); err != nil {
		return LeaseQuote{}, err
	}

	form := calculator.NewForm(inputs)
	s.record(ctx, form.Inputs(), form.Calculation())

	return presentForm(form), nil
}

// Defaults returns the calculator's starting form.
func (s *LeaseService) Defaults() LeaseQuote {
	return presentForm(calculator.DefaultForm())
}

// ApplyEdit applies one form edit to inputs, including the coupled defaults,
// and returns the recalculated snapshot. raw is the text typed into the field.
func (s *LeaseService) ApplyEdit(ctx context.Context, inputs domain.LeaseInputs, field domain.LeaseField, raw string) (LeaseQuote, error) {
	form, err := calculator.NewForm(inputs).SetString(field, raw)
	if err != nil {
		return LeaseQuote{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	// Un plazo en cero deja el pago en Inf/NaN, que no se puede serializar.
	if err := validateLeaseInputs(form.Inputs()); err != nil {
		return LeaseQuote{}, err
	}

	s.record(ctx, form.Inputs(), form.Calculation())
	return presentForm(form), nil
}

// EstimateResidual is the residual the form would pre-fill for msrp and term.
func (s *LeaseService) EstimateResidual(msrp, leaseTerm float64) (float64, error) {
	if !isFinite(msrp) || !isFinite(leaseTerm) {
		return 0, fmt.Errorf("%w: msrp and leaseTerm must be numbers", domain.ErrInvalidInput)
	}
	return roundTo2Decimals(calculator.EstimatedResidual(msrp, leaseTerm)), nil
}

// MonthlyPayment computes the payment for terms under the given treatment.
func (s *LeaseService) MonthlyPayment(treatment domain.TaxTreatment, terms domain.DealTerms) (float64, error) {
	if err := validateDealTerms(terms); err != nil {
		return 0, err
	}
	payment, err := calculator.MonthlyPayment(treatment, terms)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	metrics.RecordQuote(string(treatment))
	return roundTo2Decimals(payment), nil
}

// CompareTreatments computes terms under both treatments.
func (s *LeaseService) CompareTreatments(terms domain.DealTerms) (TreatmentComparison, error) {
	if err := validateDealTerms(terms); err != nil {
		return TreatmentComparison{}, err
	}

	capCost, err := calculator.MonthlyPayment(domain.CapCostInclusive, terms)
	if err != nil {
		return TreatmentComparison{}, err
	}
	perPayment, err := calculator.MonthlyPayment(domain.PaymentInclusive, terms)
	if err != nil {
		return TreatmentComparison{}, err
	}
	metrics.RecordQuote(string(domain.CapCostInclusive))
	metrics.RecordQuote(string(domain.PaymentInclusive))

	return TreatmentComparison{
		Terms:             terms,
		CapCostInclusive:  roundTo2Decimals(capCost),
		PaymentInclusive:  roundTo2Decimals(perPayment),
		MonthlyDifference: roundTo2Decimals(capCost - perPayment),
	}, nil
}

// History returns the most recent recorded quotes.
func (s *LeaseService) History(ctx context.Context, limit int) ([]domain.LeaseQuote, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.recorder.Recent(ctx, limit)
}

func (s *LeaseService) record(ctx context.Context, inputs domain.LeaseInputs, calc domain.LeaseCalculation) {
	metrics.RecordQuote(string(domain.CapCostInclusive))

	// Guardar la cotización (no crítico si falla)
	err := s.recorder.Record(ctx, domain.LeaseQuote{
		Inputs:       inputs,
		Calculation:  calc,
		TaxTreatment: domain.CapCostInclusive,
		CreatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn("failed to record lease quote", zap.Error(err))
	}
}

func presentForm(form calculator.Form) LeaseQuote {
	return LeaseQuote{
		Inputs:        form.Inputs(),
		Calculation:   roundCalculation(form.Calculation()),
		PercentageOff: roundTo(form.PercentageOff(), 1),
	}
}

func validateLeaseInputs(in domain.LeaseInputs) error {
	for _, f := range domain.LeaseFields {
		v := *in.Field(f)
		if !isFinite(v) {
			return fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidInput, f)
		}
		if math.Abs(v) > MaxAmount {
			return fmt.Errorf("%w: %s exceeds the maximum of %.2f", domain.ErrInvalidInput, f, MaxAmount)
		}
	}
	if in.LeaseTerm < MinTermMonths {
		return fmt.Errorf("%w: leaseTerm must be at least %d months", domain.ErrInvalidInput, MinTermMonths)
	}
	if in.LeaseTerm > MaxTermMonths {
		return fmt.Errorf("%w: leaseTerm exceeds the maximum of %d months", domain.ErrInvalidInput, MaxTermMonths)
	}
	if in.InterestRate > MaxInterestRate {
		return fmt.Errorf("%w: interestRate exceeds the maximum of %.2f%%", domain.ErrInvalidInput, MaxInterestRate)
	}
	if in.TaxRate > MaxTaxRate {
		return fmt.Errorf("%w: taxRate exceeds the maximum of %.2f%%", domain.ErrInvalidInput, MaxTaxRate)
	}
	return nil
}

func validateDealTerms(t domain.DealTerms) error {
	return validateLeaseInputs(t.LeaseInputs())
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
