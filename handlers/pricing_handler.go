package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rrlogistics/models"
)

type PricingHandler struct {
	Service PricingService
}

func (h *PricingHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var rule models.PricingRule
	if !decodeJSON(w, r, &rule) {
		return
	}

	created, err := h.Service.Create(r.Context(), rule, principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Pricing rule created successfully", created)
}

func (h *PricingHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = []*models.PricingRule{}
	}
	writeOK(w, http.StatusOK, "", rules)
}

func (h *PricingHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var patch models.PricingRulePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	rule, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Pricing rule updated successfully", rule)
}

func (h *PricingHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Pricing rule deleted successfully", nil)
}

func (h *PricingHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.Service.Quote(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", quote)
}
