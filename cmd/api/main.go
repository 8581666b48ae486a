package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/backend"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logger"
	repo "app/internal/repository"
	"app/internal/scanner"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(empCd string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"emp": empCd,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .env は無くてもよい（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init(false)
		logger.Fatal().Err(err).Msg("configuration error")
	}
	logger.Init(cfg.IsProd())

	//バックエンドクライアント
	backendClient := backend.NewClient(cfg.BackendAPIBase)

	//レシートジャーナル（DSN未設定なら記録しない）
	var receiptRepo repo.ReceiptRepository = infraRepo.NewReceiptNoopRepository()
	if cfg.DatabaseURL != "" {
		gormDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("journal db connection failed")
		}
		if err := gormDB.AutoMigrate(
			&model.Receipt{},
			&model.ReceiptLine{},
		); err != nil {
			logger.Fatal().Err(err).Msg("journal db migration failed")
		}
		receiptRepo = infraRepo.NewReceiptGormRepository(gormDB)
	}

	//Repository生成
	sessionRepo := infraRepo.NewSessionMemoryRepository()

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 12 * time.Hour,
	}

	//Usecase生成
	cartUC := usecase.NewCartUsecase(sessionRepo, backendClient)
	scannerUC := usecase.NewScannerUsecase(sessionRepo, cartUC, scanner.DefaultCooldown, scanner.DefaultCloseDelay)
	sessionUC := usecase.NewSessionUsecase(sessionRepo, scannerUC, idGen, clock)
	checkoutUC := usecase.NewCheckoutUsecase(sessionRepo, backendClient, receiptRepo, cfg.StoreCd, cfg.PosNo, idGen, clock)
	authUC := usecase.NewAuthUsecase(cfg.OperatorPinHash, usecase.NewBcryptPinVerifier(), issuer, clock)

	//Handler生成
	h := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Session:  handler.NewSessionHandler(sessionUC),
		Cart:     handler.NewCartHandler(cartUC),
		Scanner:  handler.NewScannerHandler(scannerUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Health:   handler.NewHealthHandler(backendClient),
	}

	//Server起動
	e := server.New(cfg, h)
	logger.Info().Str("port", cfg.Port).Str("backend", cfg.BackendAPIBase).Msg("starting pos-register")
	if err := server.Start(e, cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
