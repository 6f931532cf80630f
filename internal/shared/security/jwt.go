package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer     = "arcanus"
	defaultTTL = 7 * 24 * time.Hour
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrInvalidPlayerID  = errors.New("player id must be positive")
)

// Claims 中的 uid 即对局内的玩家 id。
type Claims struct {
	PlayerID int `json:"uid"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award 为玩家签发默认 7 天有效的令牌。
func Award(playerID int) (string, error) {
	return AwardWithTTL(playerID, defaultTTL)
}

func AwardWithTTL(playerID int, ttl time.Duration) (string, error) {
	if playerID <= 0 {
		return "", ErrInvalidPlayerID
	}
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &Claims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 校验签名、过期时间与签发方。
func ParseToken(tokenStr string) (*jwt.Token, *Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, nil, err
	}
	if token == nil || !token.Valid {
		return nil, nil, jwt.ErrTokenInvalidClaims
	}
	if claims.PlayerID <= 0 {
		return nil, nil, ErrInvalidPlayerID
	}
	return token, claims, nil
}

// PlayerIDFromToken 只取玩家 id。
func PlayerIDFromToken(tokenStr string) (int, error) {
	_, claims, err := ParseToken(tokenStr)
	if err != nil {
		return 0, err
	}
	return claims.PlayerID, nil
}
