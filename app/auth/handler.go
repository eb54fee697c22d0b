package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mytheresa/storefront/app/response"
	"github.com/mytheresa/storefront/internal/auth"
	"github.com/mytheresa/storefront/internal/logger"
)

type TokenIssuer interface {
	Issue(subject, role string) (string, time.Time, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginHandler struct {
	email    string
	password string
	issuer   TokenIssuer
}

func NewLoginHandler(email, password string, issuer TokenIssuer) *LoginHandler {
	return &LoginHandler{
		email:    email,
		password: password,
		issuer:   issuer,
	}
}

func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(req.Email)), []byte(strings.ToLower(h.email))) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !emailOK || !passwordOK {
		logger.Get().WithContext(r.Context()).Warn("rejected admin login", "email", req.Email)
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expires, err := h.issuer.Issue(h.email, auth.RoleAdmin)
	if err != nil {
		logger.Get().WithContext(r.Context()).ErrorWithErr("failed to issue token", err)
		response.Error(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	response.JSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires}, "Login successful")
}
