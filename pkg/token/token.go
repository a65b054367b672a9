package token

import (
	"errors"
	"fmt"
	"time"

	"anoa.com/hennahub/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the actor context issued at login.
type Claims struct {
	Role        string `json:"role"`
	IsSuperuser bool   `json:"su,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Generate signs an access token for user and returns it with its unix expiry.
func (i *Issuer) Generate(user *entity.User) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt.Unix(), nil
}

// Parse validates tokenString and returns the actor it was issued for.
func (i *Issuer) Parse(tokenString string) (entity.Actor, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return entity.Actor{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return entity.Actor{}, ErrInvalidToken
	}
	return entity.Actor{UserID: userID, Role: claims.Role, IsSuperuser: claims.IsSuperuser}, nil
}
