package service

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the bearer token claims issued for shoppers by the
// auth collaborator. This service only validates them.
type UserClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// AdminClaims are the bearer token claims for back-office operators.
type AdminClaims struct {
	AdminID uint `json:"admin_id"`
	jwt.RegisteredClaims
}
