package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rrlogistics/models"
)

var (
	ErrTokenIsInvalid = errors.New("token is invalid")
	ErrTokenIsExpired = errors.New("token is expired")
)

// JWTService signs and validates HS256 bearer tokens carrying the user id and role.
type JWTService struct {
	authSecretKey string
	ttl           time.Duration
}

func NewJWTService(authSecretKey string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{authSecretKey: authSecretKey, ttl: ttl}
}

func (j *JWTService) GenerateJWT(subject string, role models.Role) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(j.ttl).Unix(),
	})

	tokenString, err := token.SignedString([]byte(j.authSecretKey))
	if err != nil {
		return "", fmt.Errorf("error while generating token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken checks signature and expiry and returns the caller.
func (j *JWTService) ValidateToken(tokenString string) (models.Principal, error) {
	parsedToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.authSecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Principal{}, ErrTokenIsExpired
		}
		return models.Principal{}, fmt.Errorf("%w: %v", ErrTokenIsInvalid, err)
	}
	if !parsedToken.Valid {
		return models.Principal{}, ErrTokenIsInvalid
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return models.Principal{}, ErrTokenIsInvalid
	}
	sub, _ := claims.GetSubject()
	role, _ := claims["role"].(string)
	if sub == "" || !models.Role(role).Valid() {
		return models.Principal{}, ErrTokenIsInvalid
	}
	return models.Principal{UserID: sub, Role: models.Role(role)}, nil
}
