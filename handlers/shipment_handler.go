package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rrlogistics/models"
	"rrlogistics/services"
)

type ShipmentHandler struct {
	Service ShipmentService
}

func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewShipment
	if !decodeJSON(w, r, &in) {
		return
	}

	sh, err := h.Service.Create(r.Context(), in, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Shipment created successfully", sh)
}

func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Shipment deleted", nil)
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := models.ShipmentFilter{
		Status:     models.ShipmentStatus(r.URL.Query().Get("status")),
		CustomerID: r.URL.Query().Get("customer_id"),
		Skip:       skip,
		Limit:      limit,
	}

	list, err := h.Service.List(r.Context(), filter, principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Shipment{}
	}
	writeOK(w, http.StatusOK, "", list)
}

func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	sh, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", sh)
}

func (h *ShipmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var upd services.StatusUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	sh, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), upd, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Shipment status updated", sh)
}

// Track is public and accepts a tracking, docket or consignment number.
func (h *ShipmentHandler) Track(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Track(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", res)
}
