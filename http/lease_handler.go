package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"lease-agent/domain"
	"lease-agent/service"
)

type LeaseHandler struct {
	service *service.LeaseService
}

func NewLeaseHandler(service *service.LeaseService) *LeaseHandler {
	return &LeaseHandler{service: service}
}

// EditRequest is one keystroke-level form edit. Value may be a JSON number or
// the raw text of the field.
type EditRequest struct {
	Inputs domain.LeaseInputs `json:"inputs"`
	Field  domain.LeaseField  `json:"field"`
	Value  json.RawMessage    `json:"value"`
}

func (e EditRequest) rawValue() string {
	raw := strings.TrimSpace(string(e.Value))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Value, &s); err == nil {
		return s
	}
	return raw
}

type ResidualRequest struct {
	MSRP      float64 `json:"msrp"`
	LeaseTerm float64 `json:"leaseTerm"`
}

type ResidualResponse struct {
	MSRP          float64 `json:"msrp"`
	LeaseTerm     float64 `json:"leaseTerm"`
	ResidualValue float64 `json:"residualValue"`
}

type MonthlyPaymentRequest struct {
	TaxTreatment domain.TaxTreatment `json:"taxTreatment"`
	Terms        domain.DealTerms    `json:"terms"`
}

type MonthlyPaymentResponse struct {
	TaxTreatment   domain.TaxTreatment `json:"taxTreatment"`
	MonthlyPayment float64             `json:"monthlyPayment"`
}

func (h *LeaseHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input domain.LeaseInputs
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.Quote(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LeaseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.ApplyEdit(r.Context(), req.Inputs, req.Field, req.rawValue())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LeaseHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Defaults())
}

func (h *LeaseHandler) EstimateResidual(w http.ResponseWriter, r *http.Request) {
	var req ResidualRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	residual, err := h.service.EstimateResidual(req.MSRP, req.LeaseTerm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResidualResponse{
		MSRP:          req.MSRP,
		LeaseTerm:     req.LeaseTerm,
		ResidualValue: residual,
	})
}

func (h *LeaseHandler) MonthlyPayment(w http.ResponseWriter, r *http.Request) {
	var req MonthlyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TaxTreatment == "" {
		http.Error(w, "taxTreatment is required", http.StatusBadRequest)
		return
	}

	payment, err := h.service.MonthlyPayment(req.TaxTreatment, req.Terms)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MonthlyPaymentResponse{
		TaxTreatment:   req.TaxTreatment,
		MonthlyPayment: payment,
	})
}

func (h *LeaseHandler) CompareTreatments(w http.ResponseWriter, r *http.Request) {
	var terms domain.DealTerms
	if !decodeJSON(w, r, &terms) {
		return
	}

	result, err := h.service.CompareTreatments(terms)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LeaseHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	quotes, err := h.service.History(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if quotes == nil {
		quotes = []domain.LeaseQuote{}
	}
	writeJSON(w, http.StatusOK, quotes)
}
