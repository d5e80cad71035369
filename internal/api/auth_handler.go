package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/athenaeum/portal/internal/auth"
)

// AuthHandler handles login, logout, and the current-user endpoint.
type AuthHandler struct {
	gate     *auth.Gate
	validate *validator.Validate
}

func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{
		gate:     gate,
		validate: validator.New(),
	}
}

// Routes returns the routes for authentication
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.gate.Verifier())
		r.Use(RequireAdmin(h.gate))
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	return r
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  *auth.User `json:"user"`
	Token string     `json:"token"`
}

// Login verifies credentials and issues the session token. The token is
// returned in the body and set as an HTTP-only cookie, so both API
// clients and the admin console can use it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.gate.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	http.SetCookie(w, h.gate.TokenCookie(token))
	render.JSON(w, r, loginResponse{User: user, Token: token})
}

// Logout clears the session cookie. Issued tokens stay valid until they
// expire; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.gate.ClearCookie())
	render.JSON(w, r, map[string]bool{"success": true})
}

// Me returns the authenticated admin.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, UserFromContext(r.Context()))
}
