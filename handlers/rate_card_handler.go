package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rrlogistics/models"
)

type RateCardHandler struct {
	Service RateCardService
}

// Config returns the option lists used by the rate card form.
func (h *RateCardHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "", h.Service.Options())
}

func (h *RateCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var card models.RateCard
	if !decodeJSON(w, r, &card) {
		return
	}

	created, err := h.Service.Create(r.Context(), card, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Rate card created successfully", created)
}

func (h *RateCardHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.RateCardFilter{
		UserID:          q.Get("user_id"),
		DeliveryPartner: q.Get("delivery_partner"),
		ServiceType:     q.Get("service_type"),
		ActiveOnly:      q.Get("active_only") == "true",
	}

	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.RateCard{}
	}
	writeOK(w, http.StatusOK, "", list)
}

func (h *RateCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", card)
}

func (h *RateCardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.RateCardPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	card, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Rate card updated successfully", card)
}

func (h *RateCardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Rate card deleted successfully", nil)
}

func (h *RateCardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	card, err := h.Service.ToggleStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	state := "deactivated"
	if card.IsActive {
		state = "activated"
	}
	writeOK(w, http.StatusOK, "Rate card "+state+" successfully", card)
}

// Fetch always answers 200 when the key is well formed; Found tells whether a card matched.
func (h *RateCardHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var key models.RateCardKey
	if !decodeJSON(w, r, &key) {
		return
	}

	res, err := h.Service.Fetch(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: res.Found, Message: res.Message, Data: res})
}
