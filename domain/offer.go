package domain

import (
	"fmt"
	"strings"
	"time"
)

// Offer is a lease quote a dealership made for a car deal. Numeric columns are
// nullable; calculations coerce nil to zero (or 36 months for the term).
type Offer struct {
	ID              string    `json:"id" db:"id"`
	CarDealID       *string   `json:"car_deal_id" db:"car_deal_id"`
	DealershipID    *string   `json:"dealership_id" db:"dealership_id"`
	ContactID       *string   `json:"contact_id" db:"contact_id"`
	ProductTitle    string    `json:"product_title" db:"product_title"`
	ProductLink     *string   `json:"product_link" db:"product_link"`
	ProductSpecs    *string   `json:"product_specs" db:"product_specs"`
	ProductImageURL *string   `json:"product_image_url" db:"product_image_url"`
	IsDisqualified  *bool     `json:"is_disqualified" db:"is_disqualified"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	MSRP             *float64 `json:"msrp" db:"msrp"`
	SellingPrice     *float64 `json:"selling_price" db:"selling_price"`
	DealerIncentives *float64 `json:"dealer_incentives" db:"dealer_incentives"`
	DownPayment      *float64 `json:"down_payment" db:"down_payment"`
	ResidualValue    *float64 `json:"residual_value" db:"residual_value"`
	InterestRate     *float64 `json:"interest_rate" db:"interest_rate"`
	LeaseTerm        *int     `json:"lease_term" db:"lease_term"`
	TaxRate          *float64 `json:"tax_rate" db:"tax_rate"`
	AdditionalFees   *float64 `json:"additional_fees" db:"additional_fees"`
}

func (o *Offer) Validate() error {
	if strings.TrimSpace(o.ProductTitle) == "" {
		return fmt.Errorf("%w: product_title is required", ErrInvalidInput)
	}
	if o.LeaseTerm != nil && *o.LeaseTerm <= 0 {
		return fmt.Errorf("%w: lease_term must be positive", ErrInvalidInput)
	}
	return nil
}

// Disqualified reports whether the offer was ruled out by the user.
func (o *Offer) Disqualified() bool {
	return o.IsDisqualified != nil && *o.IsDisqualified
}

// OfferPayment is the stored-offer payment breakdown.
type OfferPayment struct {
	Depreciation            float64 `json:"depreciation"`
	MonthlyDepreciation     float64 `json:"monthlyDepreciation"`
	MonthlyFinanceCharge    float64 `json:"monthlyFinanceCharge"`
	BaseMonthlyPayment      float64 `json:"baseMonthlyPayment"`
	MonthlyFees             float64 `json:"monthlyFees"`
	MonthlyTax              float64 `json:"monthlyTax"`
	MonthlyPayment          float64 `json:"monthlyPayment"`
	TotalCost               float64 `json:"totalCost"`
	EffectiveMonthlyPayment float64 `json:"effectiveMonthlyPayment"`
}

// OfferWithPayment is an offer annotated with its dealership and payment, as
// listed in the offers table and comparisons.
type OfferWithPayment struct {
	Offer
	DealershipName string       `json:"dealership_name,omitempty"`
	Payment        OfferPayment `json:"payment"`
	Rank           int          `json:"rank,omitempty"`
}

// OfferComparison ranks the offers of one car deal.
type OfferComparison struct {
	CarDealID    string             `json:"car_deal_id"`
	TaxTreatment TaxTreatment       `json:"tax_treatment"`
	Offers       []OfferWithPayment `json:"offers"`
	BestOfferID  string             `json:"best_offer_id,omitempty"`
}

// Float returns a pointer to v, for populating nullable columns.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s, for populating nullable columns.
func String(s string) *string {
	return &s
}
