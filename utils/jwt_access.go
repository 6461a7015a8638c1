package utils

import (
	"log"
	"os"
)

const JWTIssuer = "geonote"

var (
	JWTSecretKey               string
	JWTExpirationTime          int64 // seconds
	RefreshTokenExpirationTime int64 // seconds
)

func InitJWT() {
	// For tests, use default values if environment variables aren't set
	if os.Getenv("GO_ENV") == "test" {
		if os.Getenv("JWT_SECRET_KEY") == "" {
			os.Setenv("JWT_SECRET_KEY", "test_secret_key")
		}
		if os.Getenv("JWT_EXPIRATION_TIME") == "" {
			os.Setenv("JWT_EXPIRATION_TIME", "3600")
		}
		if os.Getenv("REFRESH_TOKEN_EXPIRATION_TIME") == "" {
			os.Setenv("REFRESH_TOKEN_EXPIRATION_TIME", "604800")
		}
	}

	JWTSecretKey = os.Getenv("JWT_SECRET_KEY")
	if JWTSecretKey == "" {
		log.Fatal("JWT Secret Key not set")
	}

	JWTExpirationTime = GetEnvAsInt64("JWT_EXPIRATION_TIME", 0)
	if JWTExpirationTime <= 0 {
		log.Fatal("JWT Expiration Time not set")
	}

	RefreshTokenExpirationTime = GetEnvAsInt64("REFRESH_TOKEN_EXPIRATION_TIME", 0)
	if RefreshTokenExpirationTime <= 0 {
		log.Fatal("Refresh Token Expiration Time not set")
	}
}
