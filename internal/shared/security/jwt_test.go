package security

import (
	"errors"
	"testing"
	"time"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award(1); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 ErrJWTSecretMissing, got=%v", err)
	}
}

func TestAward_非正玩家id应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")
	if _, err := Award(0); !errors.Is(err, ErrInvalidPlayerID) {
		t.Fatalf("期望 ErrInvalidPlayerID, got=%v", err)
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award(42)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	_, claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims.PlayerID != 42 || claims.Issuer != issuer {
		t.Fatalf("期望 PlayerID==42 且签发方为 %s, got=%+v", issuer, claims)
	}
}

func TestParseToken_过期或换密钥应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")
	expired, err := AwardWithTTL(7, -time.Minute)
	if err != nil {
		t.Fatalf("AwardWithTTL err=%v", err)
	}
	if _, err := PlayerIDFromToken(expired); err == nil {
		t.Fatalf("期望过期令牌解析失败")
	}

	token, _ := Award(7)
	t.Setenv("JWT_SECRET", "another-secret")
	if _, err := PlayerIDFromToken(token); err == nil {
		t.Fatalf("期望密钥不一致时解析失败")
	}
}
