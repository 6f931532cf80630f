package handler

import (
	"Arcanus/internal/shared/security"
	"errors"
	"net/http"
	"strings"
)

var ErrTokenMissing = errors.New("token missing")

// TokenFromRequest 优先取 Authorization: Bearer，浏览器 ws 无法带头时取 query token。
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// Authenticate 校验 JWT 并返回其中的玩家 id。
func Authenticate(r *http.Request) (int, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return 0, ErrTokenMissing
	}
	return security.PlayerIDFromToken(token)
}
