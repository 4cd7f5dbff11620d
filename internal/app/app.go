package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/go-marketplace/internal/cfg"
	v1Grpc "github.com/DRSN-tech/go-marketplace/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/go-marketplace/internal/delivery/v1/http"
	"github.com/DRSN-tech/go-marketplace/internal/infrastructure/kafka"
	"github.com/DRSN-tech/go-marketplace/internal/infrastructure/mailer"
	minioInfra "github.com/DRSN-tech/go-marketplace/internal/infrastructure/minio"
	"github.com/DRSN-tech/go-marketplace/internal/infrastructure/payment"
	s3Repo "github.com/DRSN-tech/go-marketplace/internal/repository/minio"
	"github.com/DRSN-tech/go-marketplace/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/go-marketplace/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-marketplace/internal/repository/redis"
	redisConv "github.com/DRSN-tech/go-marketplace/internal/repository/redis/converter"
	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/auth"
	"github.com/DRSN-tech/go-marketplace/pkg/clients"
	"github.com/DRSN-tech/go-marketplace/pkg/closer"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/DRSN-tech/go-marketplace/pkg/postgres"
	"github.com/DRSN-tech/go-marketplace/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout     = 10 * time.Second
	forcedCloseTimeout  = 3 * time.Second
	startupTimeout      = 10 * time.Second
	topicEnsureTimeout  = 10 * time.Second
	minioCleanupTimeout = 5 * time.Second
)

// App — собранное приложение: серверы, фоновые воркеры и порядок их остановки.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp подключает хранилища и внешние сервисы и собирает usecase-слой.
// Ресурсы регистрируются в closer в порядке создания и закрываются в обратном.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(forcedCloseTimeout),
		ctx:    ctx,
		cancel: cancel,
	}

	if err := a.init(); err != nil {
		cancel()
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()
		if cerr := a.closer.Close(closeCtx); cerr != nil {
			log.Warnf("cleanup after failed init: %v", cerr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	cfg, log := a.cfg, a.logger

	startCtx, startCancel := context.WithTimeout(a.ctx, startupTimeout)
	defer startCancel()

	db, err := initPGDB(startCtx, log, cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", db.Close)

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", redisClient.Close)
	if err := redisClient.Ping(startCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(startCtx, minioClient, cfg.Minio.BucketName); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	smtpClient, err := mailer.NewSMTPClient(cfg.Mail)
	if err != nil {
		log.Errorf(err, "failed to initialize smtp client")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	// === Репозитории ===
	productConv := &pgdbConv.ProductConverterImpl{}
	productRepo := pgdb.NewProductRepo(db.Pool, productConv)
	accountRepo := pgdb.NewAccountRepo(db.Pool, &pgdbConv.AccountConverterImpl{})
	libraryRepo := pgdb.NewLibraryRepo(db.Pool, &pgdbConv.LibraryConverterImpl{}, productConv)
	deferredRepo := pgdb.NewDeferredPurchaseRepo(db.Pool, &pgdbConv.DeferredPurchaseConverterImpl{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, &pgdbConv.OutboxEventConverterImpl{})
	cacheRepo := redis.NewCacheRepo(redisClient, &redisConv.ProductConverterImpl{}, cfg.Redis, log)
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	txManager := tr.NewManager(db.Pool)

	// === Инфраструктура ===
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, a.ctx)
	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, minioCleanupTimeout)
		defer cancel()
		if err := imagesInfra.WaitForCleanup(waitCtx); err != nil {
			log.Warnf("MinIO cleanup did not finish before shutdown, some objects may remain: %v", err)
		}
		return nil
	})

	processor := payment.NewStripeProcessor(clients.NewStripeClient(cfg.Stripe), log)
	verifier := payment.NewStripeVerifier(cfg.Stripe.WebhookSecret)
	smtpMailer := mailer.NewSMTPMailer(smtpClient, cfg.Mail, log)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", producer.Close)
	topicCtx, topicCancel := context.WithTimeout(a.ctx, topicEnsureTimeout)
	defer topicCancel()
	if err := producer.EnsureTopic(topicCtx); err != nil {
		// Брокер может создать топик сам при первой записи.
		log.Warnf("failed to ensure kafka topic %s: %v", cfg.Kafka.Topic, err)
	}

	a.worker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn, cfg.Kafka.OutboxBatchSize)
	a.closer.Add("outbox worker", a.worker.Stop)

	// === Usecase ===
	productUC := usecase.NewProductUC(productRepo, imagesInfra, cacheRepo, log)
	accountUC := usecase.NewAccountUC(accountRepo, libraryRepo, deferredRepo, outboxRepo, txManager, processor, tokens, log)
	webhookUC := usecase.NewWebhookUC(verifier, productRepo, accountRepo, libraryRepo, deferredRepo, outboxRepo, txManager, smtpMailer, log)
	checkoutUC := usecase.NewCheckoutUC(productUC, accountRepo, processor, usecase.CheckoutConfig{
		Currency:    cfg.Stripe.Currency,
		PlatformFee: cfg.Stripe.PlatformFee,
		SuccessURL:  cfg.Stripe.SuccessURL,
		CancelURL:   cfg.Stripe.CancelURL,
	}, log)

	// === Транспорт ===
	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.grpcSrv.RegisterServices(productUC, accountUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(v1Http.UseCases{
		Webhook:  webhookUC,
		Account:  accountUC,
		Checkout: checkoutUC,
		Product:  productUC,
	}, tokens, cfg.Minio.MaxCoverSize)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и outbox-воркер и блокируется до сигнала остановки или ошибки сервера.
func (a *App) Run() error {
	log := a.logger

	a.worker.Start(a.ctx)

	errCh := make(chan error, 2)
	go func() {
		log.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		log.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	closeErr := a.closer.Close(shutdownCtx)
	a.cancel()
	if closeErr != nil {
		log.Errorf(closeErr, "shutdown finished with errors")
	}

	log.Infof("Application shutdown complete")
	return errors.Join(appErr, closeErr)
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
