package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-agent/domain"
	"lease-agent/service"
)

const defaultInputsJSON = `{
	"vehiclePrice": 30000,
	"dealerIncentives": 2000,
	"sellingPrice": 28000,
	"downPayment": 3000,
	"tradeInValue": 0,
	"tradeInPayoff": 0,
	"interestRate": 4.5,
	"leaseTerm": 36,
	"taxRate": 8.5,
	"taxesAndFees": 1500,
	"residualValue": 16500
}`

func TestCalculateHandler_OK(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/lease/calculate", defaultInputsJSON)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote := decode[service.LeaseQuote](t, w)
	assert.Equal(t, 506.02, quote.Calculation.MonthlyPayment)
	assert.Equal(t, 6.7, quote.PercentageOff)

	history, err := api.recorder.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCalculateHandler_BadRequest(t *testing.T) {
	w := newTestAPI(t).do(t, http.MethodPost, "/lease/calculate", `{invalid-json}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateHandler_ZeroTerm(t *testing.T) {
	w := newTestAPI(t).do(t, http.MethodPost, "/lease/calculate", `{"vehiclePrice": 30000, "leaseTerm": 0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateHandler_RequiresJSON(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodPost, "/lease/calculate", "")

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestEditHandler_NumberAndText(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/lease/edit",
		`{"inputs": `+defaultInputsJSON+`, "field": "vehiclePrice", "value": 40000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote := decode[service.LeaseQuote](t, w)
	assert.Equal(t, 38000.0, quote.Inputs.SellingPrice)
	assert.Equal(t, 22000.0, quote.Inputs.ResidualValue)

	w = api.do(t, http.MethodPost, "/lease/edit",
		`{"inputs": `+defaultInputsJSON+`, "field": "leaseTerm", "value": "48"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote = decode[service.LeaseQuote](t, w)
	assert.Equal(t, 48.0, quote.Inputs.LeaseTerm)
	assert.Equal(t, 13500.0, quote.Inputs.ResidualValue)

	w = api.do(t, http.MethodPost, "/lease/edit",
		`{"inputs": `+defaultInputsJSON+`, "field": "downPayment", "value": "abc"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote = decode[service.LeaseQuote](t, w)
	assert.Zero(t, quote.Inputs.DownPayment)
}

func TestEditHandler_UnknownField(t *testing.T) {
	w := newTestAPI(t).do(t, http.MethodPost, "/lease/edit",
		`{"inputs": `+defaultInputsJSON+`, "field": "color", "value": "red"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDefaultsHandler(t *testing.T) {
	w := newTestAPI(t).do(t, http.MethodGet, "/lease/defaults", "")

	require.Equal(t, http.StatusOK, w.Code)
	quote := decode[service.LeaseQuote](t, w)
	assert.Equal(t, 30000.0, quote.Inputs.VehiclePrice)
	assert.Equal(t, 506.02, quote.Calculation.MonthlyPayment)
}

func TestEstimateResidualHandler(t *testing.T) {
	w := newTestAPI(t).do(t, http.MethodPost, "/lease/estimate-residual", `{"msrp": 40000, "leaseTerm": 24}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ResidualResponse](t, w)
	assert.Equal(t, 22000.0, resp.ResidualValue)
}

const termsJSON = `{
	"msrp": 30000,
	"sellingPrice": 28000,
	"dealerIncentives": 2000,
	"downPayment": 3000,
	"residualValue": 16500,
	"interestRate": 4.5,
	"leaseTerm": 36,
	"taxRate": 8.5,
	"additionalFees": 1500
}`

func TestMonthlyPaymentHandler(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/lease/monthly-payment", `{"taxTreatment": "cap_cost_inclusive", "terms": `+termsJSON+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 506.02, decode[MonthlyPaymentResponse](t, w).MonthlyPayment)

	w = api.do(t, http.MethodPost, "/lease/monthly-payment", `{"terms": `+termsJSON+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/lease/monthly-payment", `{"taxTreatment": "both", "terms": `+termsJSON+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareTreatmentsHandler(t *testing.T) {
	w := newTestAPI(t).do(t, http.MethodPost, "/lease/treatments", termsJSON)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cmp := decode[service.TreatmentComparison](t, w)
	assert.Equal(t, 506.02, cmp.CapCostInclusive)
	assert.NotEqual(t, cmp.CapCostInclusive, cmp.PaymentInclusive)
}

func TestHistoryHandler(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/lease/calculate", defaultInputsJSON)
	api.do(t, http.MethodGet, "/lease/defaults", "")

	w := api.do(t, http.MethodGet, "/lease/quotes?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.LeaseQuote](t, w), 1)

	w = api.do(t, http.MethodGet, "/lease/quotes?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaseRoutes_RateLimited(t *testing.T) {
	api := newTestAPIWithLimit(t, 2)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/lease/defaults", "").Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/lease/defaults", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, api.do(t, http.MethodGet, "/lease/defaults", "").Code)

	// las rutas de car deals no tienen límite
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/car-deals", "").Code)
}
