package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lease-agent/domain"
	"lease-agent/service"
)

type CarDealHandler struct {
	service *service.CarDealService
}

func NewCarDealHandler(service *service.CarDealService) *CarDealHandler {
	return &CarDealHandler{service: service}
}

type DealershipRequest struct {
	Name string `json:"name"`
}

func (h *CarDealHandler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.service.ListCarDeals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(deals))
}

func (h *CarDealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var deal domain.CarDeal
	if !decodeJSON(w, r, &deal) {
		return
	}

	created, err := h.service.CreateCarDeal(r.Context(), deal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CarDealHandler) Get(w http.ResponseWriter, r *http.Request) {
	deal, err := h.service.GetCarDeal(r.Context(), chi.URLParam(r, "carDealID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *CarDealHandler) Update(w http.ResponseWriter, r *http.Request) {
	var deal domain.CarDeal
	if !decodeJSON(w, r, &deal) {
		return
	}

	updated, err := h.service.UpdateCarDeal(r.Context(), chi.URLParam(r, "carDealID"), deal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CarDealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCarDeal(r.Context(), chi.URLParam(r, "carDealID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CarDealHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context(), chi.URLParam(r, "carDealID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	overview.AllCarDeals = nonNil(overview.AllCarDeals)
	overview.Offers = nonNil(overview.Offers)
	overview.Dealerships = nonNil(overview.Dealerships)
	overview.Contacts = nonNil(overview.Contacts)
	writeJSON(w, http.StatusOK, overview)
}

func (h *CarDealHandler) ListDealerships(w http.ResponseWriter, r *http.Request) {
	dealerships, err := h.service.ListDealerships(r.Context(), chi.URLParam(r, "carDealID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(dealerships))
}

func (h *CarDealHandler) CreateDealership(w http.ResponseWriter, r *http.Request) {
	var req DealershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.service.CreateDealership(r.Context(), chi.URLParam(r, "carDealID"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CarDealHandler) DeleteDealership(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDealership(r.Context(), chi.URLParam(r, "dealershipID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CarDealHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.ListContacts(r.Context(), chi.URLParam(r, "dealershipID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(contacts))
}

func (h *CarDealHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var contact domain.Contact
	if !decodeJSON(w, r, &contact) {
		return
	}

	created, err := h.service.CreateContact(r.Context(), chi.URLParam(r, "dealershipID"), contact)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CarDealHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteContact(r.Context(), chi.URLParam(r, "contactID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nonNil keeps empty lists encoded as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
