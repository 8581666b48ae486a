package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// 担当者コードまたはPINが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// PIN未設定でログイン機能が無効
var ErrLoginDisabled = errors.New("operator login is not configured")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(empCd string, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力PINと保存したハッシュを比べる約束
type PinVerifier interface {
	Verify(plain string, hashed string) bool
}

// BcryptPinVerifier は PinVerifier のbcrypt実装。
type BcryptPinVerifier struct{}

func NewBcryptPinVerifier() *BcryptPinVerifier {
	return &BcryptPinVerifier{}
}

func (v *BcryptPinVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// AuthUsecase はレジ担当者ログイン。
// 店舗共通PINを照合し、emp_cd入りのアクセストークンを発行する。
type AuthUsecase struct {
	pinHash  string
	verifier PinVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewAuthUsecase(
	pinHash string,
	verifier PinVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		pinHash:  pinHash,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

type LoginInput struct {
	EmpCd string
	Pin   string
}

type LoginOutput struct {
	EmpCd       string `json:"emp_cd"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login はログイン処理を実行する。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if u.pinHash == "" {
		return LoginOutput{}, ErrLoginDisabled
	}

	empCd := strings.TrimSpace(in.EmpCd)
	if empCd == "" || len(empCd) > 10 {
		return LoginOutput{}, ErrInvalidCredentials
	}
	if in.Pin == "" {
		return LoginOutput{}, ErrInvalidCredentials
	}

	//PIN照合
	if ok := u.verifier.Verify(in.Pin, u.pinHash); !ok {
		return LoginOutput{}, ErrInvalidCredentials
	}

	//AccessToken発行
	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(empCd, now)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{
		EmpCd:       empCd,
		AccessToken: token,
		ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
	}, nil
}
