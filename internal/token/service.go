// Package token はベアラートークンの発行と検証を提供する。
//
// トークンはHS256署名付きJWTで、発行時刻から1時間の固定有効期限を持つ。
// 発行時にクレームの正当性検証は行わない。呼び出し側が事前に
// 正しいアイデンティティを渡すことを信頼する契約になっている。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL はトークンの有効期間。発行時刻からの固定ウィンドウ。
const TokenTTL = time.Hour

// ErrInvalidToken は署名不正・期限切れ・形式不正のトークンを表す。
var ErrInvalidToken = errors.New("invalid token")

// Service はトークンの発行と検証を行う。
// 署名鍵はプロセス起動時に1回読み込み、全リクエストで共有する。
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService はServiceを生成する。
// secretにはACCESS_TOKEN_SECRETを渡す。
func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewServiceWithClock は時刻関数を差し替えたServiceを生成する。
// 有効期限まわりのテストで使用する。
func NewServiceWithClock(secret string, now func() time.Time) *Service {
	return &Service{
		secret: []byte(secret),
		now:    now,
	}
}

// Issue は渡されたクレームを署名し、1時間有効なトークン文字列を返す。
// クレームにはiat（発行時刻）とexp（有効期限）が追加される。
func (s *Service) Issue(claims map[string]any) (string, error) {
	now := s.now()

	jwtClaims := jwt.MapClaims{}
	for k, v := range claims {
		jwtClaims[k] = v
	}
	jwtClaims["iat"] = now.Unix()
	jwtClaims["exp"] = now.Add(TokenTTL).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、デコード済みクレームを返す。
// 署名が一致しない、または現在時刻がexpを過ぎている場合はErrInvalidTokenを返す。
func (s *Service) Verify(tokenString string) (map[string]any, error) {
	parsed, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
