// Package identity carries the authenticated broker through a request.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const localsKey = "session"

var ErrNoSession = errors.New("no authenticated session")

// Session is the broker profile taken from a verified access token.
type Session struct {
	UserID  string
	Email   string
	Name    string
	Company string
	Role    string
}

// FromToken reads the session claims of a verified JWT. The sub and email
// claims are required.
func FromToken(token *jwt.Token) (Session, error) {
	if token == nil || !token.Valid {
		return Session{}, ErrNoSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errors.New("invalid claims")
	}

	s := Session{
		UserID:  claimString(claims, "sub"),
		Email:   claimString(claims, "email"),
		Name:    claimString(claims, "name"),
		Company: claimString(claims, "company"),
		Role:    claimString(claims, "role"),
	}
	if s.UserID == "" {
		return Session{}, errors.New("missing sub claim")
	}
	if s.Email == "" {
		return Session{}, errors.New("missing email claim")
	}
	return s, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

// Set stores s on the request.
func Set(c *fiber.Ctx, s Session) {
	c.Locals(localsKey, s)
	c.Locals("owner_id", s.UserID)
}

// FromCtx returns the session stored by the JWT middleware.
func FromCtx(c *fiber.Ctx) (Session, error) {
	s, ok := c.Locals(localsKey).(Session)
	if !ok || s.UserID == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}
