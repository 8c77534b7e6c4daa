package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}
