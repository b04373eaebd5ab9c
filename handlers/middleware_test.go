package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"rrlogistics/handlers/mocks"
	"rrlogistics/models"
	"rrlogistics/services"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	writeOK(w, http.StatusOK, p.UserID, nil)
}

func TestRequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthService(ctrl)
	auth.EXPECT().Authenticate("good").Return(models.Principal{UserID: "u1", Role: models.RoleCustomer}, nil)
	auth.EXPECT().Authenticate("bad").Return(models.Principal{}, services.ErrTokenIsInvalid)

	h := RequireAuth(auth)(http.HandlerFunc(okHandler))

	testCases := []struct {
		name         string
		header       string
		expectedCode int
		expectedBody string
	}{
		{"no header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Bearer token is empty"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, "Token is invalid"},
		{"valid token", "Bearer good", http.StatusOK, "u1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.expectedBody)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	h := RequireRoles(models.RoleMasterAdmin)(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), models.Principal{UserID: "c1", Role: models.RoleChildAdmin}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), models.Principal{UserID: "m1", Role: models.RoleMasterAdmin}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDAssignsOne(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRecoverWrapper(t *testing.T) {
	h := RecoverWrapper(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, rec.Body.String())
}
