package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-rider-auth/internal/application/notification"
	"github.com/go-rider-auth/internal/config"
	"github.com/go-rider-auth/internal/infrastructure/dynamo"
	"github.com/go-rider-auth/internal/infrastructure/hasher"
	jwtinfra "github.com/go-rider-auth/internal/infrastructure/jwt"
	"github.com/go-rider-auth/internal/infrastructure/logmail"
	"github.com/go-rider-auth/internal/infrastructure/mailersend"
	natsinfra "github.com/go-rider-auth/internal/infrastructure/nats"
	"github.com/go-rider-auth/internal/infrastructure/smtp"
	snsinfra "github.com/go-rider-auth/internal/infrastructure/sns"
	transporthttp "github.com/go-rider-auth/internal/transport/http"
	"github.com/joho/godotenv"
)

type eventPublisher interface {
	transporthttp.EventPublisher
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg.LogLevel))

	// A signing secret is a startup precondition, not a per-request concern.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	pwHasher, err := hasher.New(cfg.PasswordHasher)
	if err != nil {
		log.Fatalf("password hasher: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	mailer, err := newMailer(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	deps := &transporthttp.Deps{
		AccountRepo:      dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts, cfg.DynamoTables.AccountEmails),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.VerificationCodes),
		Hasher:           pwHasher,
		JWTProvider:      jwtProvider,
		Notifier:         notification.NewService(mailer, cfg.CodeTTL),
	}

	// Event fan-out is optional; without a topic or NATS URL events are dropped.
	if pub := newPublisher(ctx, cfg); pub != nil {
		deps.Publisher = pub
		defer func() {
			if err := pub.Close(); err != nil {
				slog.Warn("closing event publisher", "err", err)
			}
		}()
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newMailer(cfg *config.Config) (notification.Mailer, error) {
	switch cfg.MailProvider {
	case "mailersend":
		return mailersend.NewMailer(cfg)
	case "log":
		return logmail.NewMailer(slog.Default()), nil
	case "smtp", "":
		return smtp.NewMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
}

func newPublisher(ctx context.Context, cfg *config.Config) eventPublisher {
	switch {
	case cfg.SNSTopicARN != "":
		awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.SNSRegion)
		if err != nil {
			slog.Warn("SNS publisher not available", "err", err)
			return nil
		}
		return snsinfra.NewPublisher(awsCfg, cfg.SNSTopicARN)
	case cfg.NATSURL != "":
		p, err := natsinfra.NewPublisher(cfg.NATSURL)
		if err != nil {
			slog.Warn("NATS publisher not available", "err", err)
			return nil
		}
		return p
	}
	return nil
}
