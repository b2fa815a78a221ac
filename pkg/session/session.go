package session

import (
	"context"
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

type key int

const (
	SessionKey key = 1
)

// Identity is the verified caller identity carried by a session token.
// Email is the sole identity key across the system.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

type Session struct {
	Identity  *Identity `json:"identity"`
	SessionID string
	jwt.StandardClaims
}

func SessionFromContext(ctx context.Context) (*Session, error) {
	sess, ok := ctx.Value(SessionKey).(*Session)
	if !ok {
		return nil, fmt.Errorf("session not found")
	}

	return sess, nil
}
