package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type JWTService struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewJWTService(jwtSecret string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
	}
}

// GenerateNewToken issues an identity-only token. Role and status are
// deliberately absent; the middleware reads them from the profile row on
// every request.
func (jwt_s *JWTService) GenerateNewToken(userID, email string) (string, error) {
	if jwt_s.JWTSecret == "" {
		return "", fmt.Errorf("jwt secret not configured")
	}

	claimID := "C-" + utils.GenerateRandomStringWithLength(6)
	claim := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwt_s.TokenTTL)),
			Issuer:    "bitterscan-dashboard",
		},
		Id:     claimID,
		UserID: userID,
		Email:  email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	tokenString, err := token.SignedString([]byte(jwt_s.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("error generate token string: %s", err)
	}
	return tokenString, nil
}

func (jwt_s *JWTService) VerifyToken(tokenString string) (*models.Claims, error) {
	if jwt_s.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret not configured")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwt_s.JWTSecret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
