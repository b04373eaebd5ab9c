package handlers

import (
	"net/http"

	"rrlogistics/models"
)

type UserHandler struct {
	Service AuthService
}

// Signup creates an account. Only a master admin reaches this handler.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var user models.AppUser
	if !decodeJSON(w, r, &user) {
		return
	}

	if user.FullName == "" || user.Email == "" || user.Password == "" {
		writeFail(w, http.StatusBadRequest, "Full name, email and password are required")
		return
	}

	created, err := h.Service.Register(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "User signed up successfully", created)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &creds) {
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeFail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.Service.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Login successful", res)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.Me(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	user, err := h.Service.UpdateMe(r.Context(), principal(r).UserID, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Profile updated", user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	users, err := h.Service.ListUsers(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.AppUser{}
	}
	writeOK(w, http.StatusOK, "", users)
}
