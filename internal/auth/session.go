// Session handling.
//
// A session is a signed JWT carried in an HttpOnly cookie. The token is
// stateless: the user id lives in the "sub" claim and the HMAC signature
// (keyed by the process-wide SESSION_SECRET) makes it tamper-proof, so no
// server-side session table is needed. Every request's middleware validates
// the cookie and loads the user row it names.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// sessionTTL is how long a login lasts before the user must sign in again.
const sessionTTL = 7 * 24 * time.Hour

const issuer = "inkwell"

// SessionService signs and validates session tokens.
//
// The same HMAC secret is used for both operations. It must be set before
// the server starts; an unset secret is a startup-time misconfiguration.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. SESSION_SECRET=$(openssl rand -hex 32).
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// claims is the session token payload. The registered Subject claim carries
// the user id; ID (jti) is a unique xid so every issued token is distinct.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given user id.
func (s *SessionService) Issue(userID int64) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token string and returns the user
// id it encodes. The jwt library checks the signature, expiry, and issuer;
// restricting the accepted methods to HS256 prevents algorithm-confusion
// tokens from being accepted.
func (s *SessionService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: session expired")
		}
		return 0, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid session claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: session has no valid subject")
	}

	return userID, nil
}

// SetCookie writes the session cookie on a login or registration response.
//
// HttpOnly keeps the token out of reach of page scripts; SameSite=Lax stops
// the browser sending it on cross-site POSTs.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie. Logging out with no active
// session just re-expires an absent cookie, so the operation is idempotent.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
