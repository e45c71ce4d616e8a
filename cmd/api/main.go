package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/PaulBabatuyi/chatapp-rest/internal/auth"
	"github.com/PaulBabatuyi/chatapp-rest/internal/config"
	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/db"
	"github.com/PaulBabatuyi/chatapp-rest/internal/logger"
	"github.com/PaulBabatuyi/chatapp-rest/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	dbClient, err := db.New(ctx, cfg.Mongo.URI, db.Options{
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		Transactions:   cfg.Mongo.Transactions,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = dbClient.Close(context.Background())
	}()

	// Ensure indexes exist
	if err := dbClient.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	// Create stores
	usersStore := data.NewUsersStore(dbClient.UsersCollection())
	chatsStore := data.NewChatsStore(dbClient.ChatsCollection())
	msgsStore := data.NewMessagesStore(dbClient.MessagesCollection())

	// JWT_KEYS enables rotation; otherwise sign with the single JWT_SECRET
	var jwtMgr *auth.JWTManager
	if len(cfg.JWT.Keys) > 0 {
		jwtMgr = auth.NewJWTManagerFromKeys(cfg.JWT.Keys, cfg.JWT.ActiveKID, cfg.JWT.TTL)
	} else {
		jwtMgr = auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	}

	account := service.NewAccount(usersStore, jwtMgr, log)
	social := service.NewSocial(usersStore, dbClient, log)
	conv := service.NewConversation(chatsStore, msgsStore, log)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := newServer(account, social, conv, jwtMgr, dbClient, log)
	httpServer := &http.Server{
		Addr: net.JoinHostPort("", cfg.HTTP.Port),
		Handler: srv.routes(routerOptions{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			StaticDir:      cfg.HTTP.StaticDir,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	grpcServer, healthServer := newHealthGRPCServer()
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", net.JoinHostPort("", cfg.GRPC.Port))
		if err != nil {
			_ = httpServer.Close()
			return fmt.Errorf("failed to listen: %w", err)
		}
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("gRPC health server listening", zap.String("address", lis.Addr().String()))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC server: %w", err)
			}
		}()
	}

	// Graceful shutdown on SIGINT/SIGTERM or when a listener fails
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("received interruption signal, shutting down")
	case runErr = <-errCh:
		log.Error("server failed, shutting down", zap.Error(runErr))
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("error during HTTP server shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	wg.Wait()
	log.Info("shutdown complete")
	return runErr
}
