package jwt

import (
	"testing"
	"time"

	"github.com/DuongStark/FaceAuthen-Backend/config"
)

func newTestManager(accessTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-32-bytes-long!!!",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 168 * time.Hour,
	})
}

func TestManager_GenerateAndParseAccessToken(t *testing.T) {
	mgr := newTestManager(time.Hour)

	token, err := mgr.GenerateAccessToken("uid-001", "gv01@ptit.edu.vn", "lecturer")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}

	if claims.UID != "uid-001" {
		t.Errorf("期望 UID=uid-001，实际=%s", claims.UID)
	}
	if claims.Role != "lecturer" {
		t.Errorf("期望 Role=lecturer，实际=%s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际=%s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("期望 jti 非空")
	}
}

func TestManager_ParseToken_Expired(t *testing.T) {
	mgr := newTestManager(-time.Minute) // 已过期

	token, err := mgr.GenerateAccessToken("uid-001", "sv01@ptit.edu.vn", "student")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := mgr.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	mgr := newTestManager(time.Hour)
	other := NewManager(&config.AuthConfig{
		JWTSecret:       "another-secret-key-32-bytes!!!!!",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	})

	token, err := mgr.GenerateAccessToken("uid-001", "sv01@ptit.edu.vn", "student")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestManager_RefreshTokenType(t *testing.T) {
	mgr := newTestManager(time.Hour)

	token, err := mgr.GenerateRefreshToken("uid-002", "sv02@ptit.edu.vn", "student")
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 TokenType=refresh，实际=%s", claims.TokenType)
	}
}
