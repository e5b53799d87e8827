package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped on every token and required on validation
const Issuer = "spotlight"

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims carries the user id both as userId and as the standard subject
type Claims struct {
	UserID uint      `json:"userId"`
	Email  string    `json:"email,omitempty"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

func signToken(userID uint, email string, tokenType TokenType, secretKey string, ttl time.Duration) (string, error) {
	issuedAt := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// GenerateAccessToken signs a short-lived token for API calls
func GenerateAccessToken(userID uint, email, secretKey string, expireMinutes int) (string, error) {
	return signToken(userID, email, AccessToken, secretKey, time.Duration(expireMinutes)*time.Minute)
}

// GenerateRefreshToken signs a long-lived token only accepted by /auth/refresh
func GenerateRefreshToken(userID uint, email, secretKey string, expireDays int) (string, error) {
	return signToken(userID, email, RefreshToken, secretKey, time.Duration(expireDays)*24*time.Hour)
}

func ValidateAccessToken(tokenString, secretKey string) (*Claims, error) {
	return parseToken(tokenString, secretKey, AccessToken)
}

func ValidateRefreshToken(tokenString, secretKey string) (*Claims, error) {
	return parseToken(tokenString, secretKey, RefreshToken)
}

func parseToken(tokenString, secretKey string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secretKey), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// GenerateTokenPair issues the access and refresh tokens returned on login
func GenerateTokenPair(userID uint, email, secretKey string, accessExpireMin, refreshExpireDays int) (accessToken, refreshToken string, err error) {
	if accessToken, err = GenerateAccessToken(userID, email, secretKey, accessExpireMin); err != nil {
		return "", "", err
	}
	if refreshToken, err = GenerateRefreshToken(userID, email, secretKey, refreshExpireDays); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
