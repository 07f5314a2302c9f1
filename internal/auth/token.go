package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken wraps the session reference in an HS256 JWT. Subject carries the
// user id, ID the session id; the store record remains authoritative for
// everything else.
func signToken(secret, sessionID, userID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// verifyToken validates signature and expiry and returns the session and user
// ids.
func verifyToken(secret, raw string) (sessionID, userID string, err error) {
	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	if claims.ID == "" || claims.Subject == "" {
		return "", "", errors.New("auth: token missing session reference")
	}
	return claims.ID, claims.Subject, nil
}
