package utils

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"

	"diaconia/backend/config"
	"diaconia/backend/errs"
)

// Claims is the payload of every access token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateJWTToken(userID uint, role string, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWTExpiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ParseToken validates an Authorization header value, with or without the "Bearer " prefix.
func ParseToken(header string, cfg *config.Config) (*Claims, error) {
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" {
		return nil, errors.Wrap(errs.ErrUnauthenticated, "missing authorization token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.Wrap(errs.ErrUnauthenticated, "invalid token")
	}
	if claims.UserID == 0 {
		return nil, errors.Wrap(errs.ErrUnauthenticated, "invalid user id in token")
	}
	return claims, nil
}
