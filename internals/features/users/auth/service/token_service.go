package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"coursedig_backend/internals/configs"
	model "coursedig_backend/internals/features/users/auth/model"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	purposeVerifyEmail = "verify_email"
)

func baseClaims(u *model.UserModel, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"id":        u.ID.String(),
		"email":     u.Email,
		"role":      u.Role,
		"user_name": u.UserName,
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	}
}

func CreateAccessToken(u *model.UserModel) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims(u, AccessTokenTTL))
	return token.SignedString([]byte(configs.JWTSecret))
}

func CreateRefreshToken(u *model.UserModel) (string, error) {
	claims := baseClaims(u, RefreshTokenTTL)
	claims["typ"] = "refresh"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTRefreshSecret))
}

// ParseRefreshToken validates a refresh token and returns its claims.
func ParseRefreshToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return nil, errors.New("not a refresh token")
	}
	return claims, nil
}

// CreateEmailVerifyToken issues the token embedded in the verification link.
func CreateEmailVerifyToken(u *model.UserModel) (string, error) {
	claims := jwt.MapClaims{
		"id":      u.ID.String(),
		"purpose": purposeVerifyEmail,
		"exp":     time.Now().Add(48 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

// ParseEmailVerifyToken returns the user id a valid verification token
// belongs to.
func ParseEmailVerifyToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}
	if purpose, _ := claims["purpose"].(string); purpose != purposeVerifyEmail {
		return "", errors.New("not a verification token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", errors.New("missing id claim")
	}
	return id, nil
}
