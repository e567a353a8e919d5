package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claim is the JWT payload for a wallet-bound API session.
type Claim struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}
