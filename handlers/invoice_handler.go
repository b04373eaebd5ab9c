package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rrlogistics/models"
	"rrlogistics/services"
)

type InvoiceHandler struct {
	Service InvoiceService
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := models.InvoiceFilter{
		CustomerID:    r.URL.Query().Get("customer_id"),
		PaymentStatus: models.PaymentStatus(r.URL.Query().Get("payment_status")),
		Skip:          skip,
		Limit:         limit,
	}

	list, err := h.Service.List(r.Context(), filter, principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Invoice{}
	}
	writeOK(w, http.StatusOK, "", list)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", inv)
}

func (h *InvoiceHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req services.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Service.AddPayment(r.Context(), chi.URLParam(r, "id"), req, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Payment recorded successfully", res)
}
