package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"review-insights/analyzer/core"
)

const (
	validSubject = "admin"
	issuer       = "review-insights"
	cookieName   = "jwt_token"
)

var tokenPrefixes = []string{"Token ", "Bearer "}

// JwtAuthenticator issues and checks HS256 tokens for the single admin
// account that may delete stored runs.
type JwtAuthenticator struct {
	adminUser     string
	adminPassword string
	jwtSecret     []byte
	ttl           time.Duration
}

func NewJwtAuthenticator(adminUser, adminPassword, jwtSecret string, ttl time.Duration) (*JwtAuthenticator, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("%w: empty jwt secret", core.ErrBadArguments)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token ttl must be positive", core.ErrBadArguments)
	}
	return &JwtAuthenticator{
		adminUser:     adminUser,
		adminPassword: adminPassword,
		jwtSecret:     []byte(jwtSecret),
		ttl:           ttl,
	}, nil
}

func (tm *JwtAuthenticator) CreateToken(name, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(name), []byte(tm.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(tm.adminPassword)) == 1
	if !userOK || !passOK {
		return "", core.ErrInvalidCredentials
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   validSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	})
	signedToken, err := token.SignedString(tm.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

func (tm *JwtAuthenticator) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return tm.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(validSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return core.ErrInvalidCredentials
	}
	return nil
}

// CheckToken takes the token from the Authorization header ("Token" or
// "Bearer" scheme) or, failing that, from the jwt_token cookie.
func (tm *JwtAuthenticator) CheckToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r.Header.Get("Authorization"))
		if !ok {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			token = cookie.Value
		}

		if err := tm.ValidateToken(token); err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearer(header string) (string, bool) {
	for _, prefix := range tokenPrefixes {
		if token, found := strings.CutPrefix(header, prefix); found {
			return token, true
		}
	}
	return "", false
}
