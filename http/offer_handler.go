package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lease-agent/domain"
	"lease-agent/service"
)

type OfferHandler struct {
	service *service.OfferService
}

func NewOfferHandler(service *service.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

type NoteRequest struct {
	Note string `json:"note"`
}

func treatmentParam(r *http.Request) domain.TaxTreatment {
	return domain.TaxTreatment(r.URL.Query().Get("treatment"))
}

func (h *OfferHandler) ListByCarDeal(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ListByCarDeal(r.Context(), chi.URLParam(r, "carDealID"), treatmentParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(offers))
}

func (h *OfferHandler) ListByDealership(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ListByDealership(r.Context(), chi.URLParam(r, "dealershipID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(offers))
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var offer domain.Offer
	if !decodeJSON(w, r, &offer) {
		return
	}

	created, err := h.service.Create(r.Context(), chi.URLParam(r, "carDealID"), offer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *OfferHandler) Compare(w http.ResponseWriter, r *http.Request) {
	comparison, err := h.service.Compare(r.Context(), chi.URLParam(r, "carDealID"), treatmentParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	comparison.Offers = nonNil(comparison.Offers)
	writeJSON(w, http.StatusOK, comparison)
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	offer, err := h.service.Get(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	var offer domain.Offer
	if !decodeJSON(w, r, &offer) {
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "offerID"), offer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "offerID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OfferHandler) Payment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.Payment(r.Context(), chi.URLParam(r, "offerID"), treatmentParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *OfferHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(notes))
}

func (h *OfferHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.service.AddNote(r.Context(), chi.URLParam(r, "offerID"), req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}
