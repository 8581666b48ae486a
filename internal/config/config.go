package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `envconfig:"PORT" default:"8080"` // サーバーポート

	BackendAPIBase string `envconfig:"BACKEND_API_BASE"` // 決済バックエンドのベースURL（必須）

	StoreCd      string `envconfig:"STORE_CD" default:"30"`       // 店舗コード
	PosNo        string `envconfig:"POS_NO" default:"90"`         // レジ番号
	DefaultEmpCd string `envconfig:"EMP_CD" default:"9999999999"` // 未ログイン時のレジ担当者コード

	JWTSecret       string `envconfig:"JWT_SECRET"`        // JWT署名シークレット（ログイン有効時は必須）
	OperatorPinHash string `envconfig:"OPERATOR_PIN_HASH"` // 担当者PINのbcryptハッシュ（空ならログイン無効）

	DatabaseURL string `envconfig:"DATABASE_URL"` // レシートジャーナル用DSN（空なら記録しない）

	GoEnv string `envconfig:"GO_ENV" default:"dev"` // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	//必須チェック
	if strings.TrimSpace(cfg.BackendAPIBase) == "" {
		return Config{}, fmt.Errorf("BACKEND_API_BASE is required")
	}
	base, err := NormalizeBaseURL(cfg.BackendAPIBase)
	if err != nil {
		return Config{}, fmt.Errorf("BACKEND_API_BASE is invalid: %w", err)
	}
	cfg.BackendAPIBase = base

	if cfg.OperatorPinHash != "" && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when OPERATOR_PIN_HASH is set")
	}

	return cfg, nil
}

// NormalizeBaseURL はベースURLを正規化する。
// スキームが無ければ https:// を補い、末尾の / は取り除く。
func NormalizeBaseURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// IsProd は本番環境かどうか。
func (c Config) IsProd() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}
