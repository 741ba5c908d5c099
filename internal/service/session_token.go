package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/florarie-simona/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 购物会话令牌声明
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokenService 签发与校验购物会话令牌
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenService 创建会话令牌服务
func NewSessionTokenService(cfg config.SessionConfig) *SessionTokenService {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	return &SessionTokenService{
		secret: []byte(cfg.SecretKey),
		ttl:    time.Duration(hours) * time.Hour,
		now:    time.Now,
	}
}

// Issue 为会话签发 HS256 令牌
func (s *SessionTokenService) Issue(sessionID string) (string, time.Time, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", time.Time{}, ErrSessionTokenInvalid
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse 校验令牌并返回声明
func (s *SessionTokenService) Parse(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionTokenInvalid, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || strings.TrimSpace(claims.SessionID) == "" {
		return nil, ErrSessionTokenInvalid
	}
	return claims, nil
}
