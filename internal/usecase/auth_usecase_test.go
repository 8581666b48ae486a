package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type stubIssuer struct{}

func (i *stubIssuer) Issue(empCd string, now time.Time) (string, time.Time, error) {
	return "token-" + empCd, now.Add(12 * time.Hour), nil
}

func pinHash(t *testing.T, pin string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestAuthUsecase_Login(t *testing.T) {
	uc := usecase.NewAuthUsecase(pinHash(t, "4649"), usecase.NewBcryptPinVerifier(), &stubIssuer{}, &fixedClock{now: time.Now()})

	out, err := uc.Login(context.Background(), usecase.LoginInput{EmpCd: " 1234 ", Pin: "4649"})
	assert.NoError(t, err)
	assert.Equal(t, "1234", out.EmpCd)
	assert.Equal(t, "token-1234", out.AccessToken)
	assert.Equal(t, int(12*time.Hour/time.Second), out.ExpiresIn)
}

func TestAuthUsecase_LoginWrongPin(t *testing.T) {
	uc := usecase.NewAuthUsecase(pinHash(t, "4649"), usecase.NewBcryptPinVerifier(), &stubIssuer{}, &fixedClock{now: time.Now()})

	_, err := uc.Login(context.Background(), usecase.LoginInput{EmpCd: "1234", Pin: "0000"})
	assert.Equal(t, usecase.ErrInvalidCredentials, err)
}

func TestAuthUsecase_LoginValidation(t *testing.T) {
	uc := usecase.NewAuthUsecase(pinHash(t, "4649"), usecase.NewBcryptPinVerifier(), &stubIssuer{}, &fixedClock{now: time.Now()})

	cases := []usecase.LoginInput{
		{EmpCd: "", Pin: "4649"},
		{EmpCd: "   ", Pin: "4649"},
		{EmpCd: "12345678901", Pin: "4649"}, // 11 digits
		{EmpCd: "1234", Pin: ""},
	}
	for _, in := range cases {
		_, err := uc.Login(context.Background(), in)
		assert.Equal(t, usecase.ErrInvalidCredentials, err)
	}
}

func TestAuthUsecase_LoginDisabledWithoutPinHash(t *testing.T) {
	uc := usecase.NewAuthUsecase("", usecase.NewBcryptPinVerifier(), &stubIssuer{}, &fixedClock{now: time.Now()})

	_, err := uc.Login(context.Background(), usecase.LoginInput{EmpCd: "1234", Pin: "4649"})
	assert.Equal(t, usecase.ErrLoginDisabled, err)
}
