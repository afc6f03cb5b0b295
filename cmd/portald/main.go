package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	portal "github.com/placementhub/portal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("portal"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("app")

	cfg, err := portal.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(redactedConfig(cfg)))
	fmt.Println("============")

	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := portal.CreateSchema(ctx, db); err != nil {
		logger.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	repo := portal.NewRepositoryManager(db)
	repo.MustValidate()

	provider := portal.NewUserProvider(repo.Users())

	validator := portal.VerificationValidator(
		cfg.AllVerificationKeys(),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		lgr.GetLogger("tokens"),
	)

	auther := portal.NewAuthenticator(provider, cfg).
		WithLogger(lgr.GetLogger("auth")).
		WithTokenValidator(validator)

	app := fiber.New(fiber.Config{
		AppName:      "placement-portal",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	portal.RegisterRoutes(app, cfg, repo, auther, validator, lgr.GetLogger("http"))

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("portal listening", "addr", cfg.ListenAddr)

	sig := waitExitSignal()
	logger.Info("shutting down", "signal", sig.String())

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

func redactedConfig(cfg *portal.AppConfig) map[string]any {
	return map[string]any{
		"listen_addr":     cfg.ListenAddr,
		"dsn":             cfg.DSN,
		"signing_method":  cfg.SigningMethod,
		"token_ttl_hours": cfg.TokenTTLHours,
		"token_issuer":    cfg.TokenIssuer,
		"token_audience":  cfg.TokenAudience,
		"context_key":     cfg.ContextKey,
		"token_lookup":    cfg.TokenLookup,
		"auth_scheme":     cfg.AuthScheme,
	}
}
