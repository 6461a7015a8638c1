package services

import (
	"fmt"
	"time"

	"main/utils"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken creates a signed access token for the user.
func GenerateToken(userID string) (string, error) {
	return signToken(userID, "access", time.Duration(utils.JWTExpirationTime)*time.Second)
}

// GenerateRefreshToken creates a signed refresh token for the user.
func GenerateRefreshToken(userID string) (string, error) {
	return signToken(userID, "refresh", time.Duration(utils.RefreshTokenExpirationTime)*time.Second)
}

func signToken(userID, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"iss":     utils.JWTIssuer,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// ValidateRefreshToken parses a refresh token and returns the user id it was
// issued for.
func ValidateRefreshToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return "", fmt.Errorf("not a refresh token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", fmt.Errorf("token missing user id")
	}

	return userID, nil
}
