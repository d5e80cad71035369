package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the cookie the token is issued under. jwtauth's Verifier
// also reads this cookie, so browser sessions work without an
// Authorization header.
const CookieName = "jwt"

const defaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no token provided")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotAdmin           = errors.New("admin role required")
)

// Gate verifies admin credentials and authenticates requests.
type Gate struct {
	tokenAuth *jwtauth.JWTAuth
	users     UserStore
	tokenTTL  time.Duration
}

// Option configures a Gate.
type Option func(*Gate)

// WithTokenTTL overrides the default 24h token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		g.tokenTTL = ttl
	}
}

// NewGate creates a gate signing tokens with HMAC-SHA256 over secret.
func NewGate(secret []byte, users UserStore, options ...Option) *Gate {
	g := &Gate{
		tokenAuth: jwtauth.New("HS256", secret, nil),
		users:     users,
		tokenTTL:  defaultTokenTTL,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Login checks the credentials and returns the user with a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (g *Gate) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := g.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	claims := map[string]interface{}{
		"sub":  user.Email,
		"role": user.Role,
		"name": user.DisplayName,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, g.tokenTTL)

	_, tokenString, err := g.tokenAuth.Encode(claims)
	if err != nil {
		return nil, "", err
	}

	return user, tokenString, nil
}

// Verifier returns the middleware that extracts and validates tokens from
// the Authorization header or the jwt cookie. It never rejects requests
// itself; Authenticate reads the outcome.
func (g *Gate) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(g.tokenAuth)
}

// Authenticate resolves the admin user for a request that passed through
// Verifier. It distinguishes missing tokens (ErrNoToken), bad or expired
// tokens (ErrInvalidToken), and authenticated non-admins (ErrNotAdmin).
func (g *Gate) Authenticate(r *http.Request) (*User, error) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			return nil, ErrNoToken
		}
		return nil, ErrInvalidToken
	}
	if token == nil {
		return nil, ErrNoToken
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		return nil, ErrInvalidToken
	}

	user, err := g.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if user.Role != RoleAdmin {
		return nil, ErrNotAdmin
	}

	return user, nil
}

// TokenCookie builds the session cookie for a freshly issued token.
func (g *Gate) TokenCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.tokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds an expired cookie for logout.
func (g *Gate) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
