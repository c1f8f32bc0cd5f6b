package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"goban_rules/internal/adapters"
	"goban_rules/internal/bootstrap"
	gameDelivery "goban_rules/internal/delivery/game"
	"goban_rules/internal/delivery/rulesrpc"
	"goban_rules/internal/domain/ko"
	ownMiddleware "goban_rules/internal/middleware"
	repo "goban_rules/internal/repository"
	gameuc "goban_rules/internal/usecase/game"
)

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	cfgPath := flag.String("config", "", "path to an .env config file")
	flag.Parse()

	logger := NewLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		logger.Errorf("Failed to setup configuration: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	store, archive, closeStorage := initStorage(ctx, logger, cfg)
	defer closeStorage()

	rule, err := ko.ParseRule(cfg.KoRule)
	if err != nil {
		logger.Fatalf("Bad KO_RULE: %v", err)
	}
	feed := gameDelivery.NewFeed(logger)
	defer feed.Close()

	gameUC := gameuc.NewGameUseCase(store, archive, feed, gameuc.Options{
		Size: cfg.BoardSize,
		Rule: rule,
		Seed: cfg.ZobristSeed,
	}, logger)
	if err := gameUC.Load(ctx); err != nil {
		logger.Fatalf("Failed to load the current game: %v", err)
	}

	grpcServer := grpc.NewServer()
	rulesrpc.RegisterRulesServer(grpcServer, rulesrpc.NewServer(logger, gameUC))
	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Cannot listen on grpc port %s: %v", cfg.GrpcPort, err)
	}
	go func() {
		logger.Infof("gRPC server is running on port %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("gRPC server stopped: %v", err)
		}
	}()

	r := chi.NewRouter()
	Router(r, cfg.IsLocalCors, gameDelivery.NewGameHandler(logger, gameUC, feed))

	srv := &http.Server{Addr: ":" + cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		grpcServer.GracefulStop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func Router(r *chi.Mux, isLocalCors bool, game *gameDelivery.GameHandler) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	game.Routes(r)
}

// initStorage picks redis and mongo, or memory when STORAGE=memory.
func initStorage(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) (gameuc.RecordStore, gameuc.Archive, func()) {
	if cfg.Storage == "memory" {
		log.Info("Keeping games in memory")
		storage := repo.NewRecordMapStorage(cfg.PageLimitGames)
		return storage, storage, func() {}
	}

	databaseAdapters := initDatabaseAdapters(ctx, log, cfg)
	ttl := time.Duration(cfg.RecordTTLHours) * time.Hour
	store := repo.NewRecordRedisStorage(databaseAdapters.redisAdapter.GetClient(), ttl, log)
	archive := repo.NewArchiveMongoStorage(databaseAdapters.mongoAdapter, cfg.PageLimitGames, log)
	return store, archive, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = databaseAdapters.mongoAdapter.Close(closeCtx)
		_ = databaseAdapters.redisAdapter.Close(closeCtx)
	}
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
