package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	AccountID  string `json:"account_id"`
	Handle     string `json:"handle"`
	Appearance string `json:"appearance"`
	jwt.RegisteredClaims
}
