package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rrlogistics/models"
)

type ConsignmentHandler struct {
	Service ConsignmentService
}

func (h *ConsignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var details models.ConsignmentDetails
	if !decodeJSON(w, r, &details) {
		return
	}

	res, err := h.Service.Create(r.Context(), details, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Consignment created successfully"
	if res.Cascade != nil && !res.Cascade.Complete() {
		message = "Consignment created; shipment or invoice creation is pending"
	}
	writeOK(w, http.StatusCreated, message, res)
}

func (h *ConsignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := models.ConsignmentFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Zone:      models.ConsignmentZone(q.Get("zone")),
		UserID:    q.Get("user_id"),
		InvoiceID: q.Get("invoice_id"),
		Skip:      skip,
		Limit:     limit,
	}

	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Consignment{}
	}
	writeOK(w, http.StatusOK, "", list)
}

func (h *ConsignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", c)
}

// Update serves both PUT and PATCH; absent fields keep their stored value.
func (h *ConsignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.ConsignmentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	res, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Consignment updated successfully", res)
}

func (h *ConsignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Consignment deleted successfully", nil)
}
