package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier/backend/internal/audit"
	auditrepo "courier/backend/internal/audit/repository"
	authservice "courier/backend/internal/auth/service"
	"courier/backend/internal/config"
	"courier/backend/internal/db"
	"courier/backend/internal/keyexchange"
	kxrepo "courier/backend/internal/keyexchange/repository"
	messagerepo "courier/backend/internal/message/repository"
	messageservice "courier/backend/internal/message/service"
	"courier/backend/internal/security"
	"courier/backend/internal/server"
	sessionrepo "courier/backend/internal/session/repository"
	sessionservice "courier/backend/internal/session/service"
	"courier/backend/internal/telemetry"
	userrepo "courier/backend/internal/user/repository"
	userservice "courier/backend/internal/user/service"
)

const serviceName = "courier-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	shutdownTelemetry, telemetryMW, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	codec, err := security.NewCodec(cfg.TokenEncoding)
	if err != nil {
		log.Fatalf("codec: %v", err)
	}
	hasher := security.NewHasher(cfg.BcryptCost)

	keyParams := keyexchange.NewManager(kxrepo.NewPostgresRepository(conn), cfg.DHPrimeBits)
	// Generation can take a while at full key size; do it before accepting
	// traffic rather than on the first prime request.
	if err := keyParams.EnsureParams(ctx); err != nil {
		log.Fatalf("keyexchange: %v", err)
	}

	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn))
	sessions := sessionservice.NewManager(sessionrepo.NewPostgresRepository(conn), codec, cfg.SessionTTL(), cfg.ExtendedSessionTTL())
	users := userrepo.NewPostgresRepository(conn)
	auth := authservice.NewAuthService(users, sessions, hasher, auditLogger)
	userSvc := userservice.NewUserService(users, hasher, codec, auditLogger)
	messageSvc := messageservice.NewMessageService(messagerepo.NewPostgresRepository(conn), users, auditLogger)

	handler := server.Routes(server.Deps{
		Auth:      auth,
		Users:     userSvc,
		Messages:  messageSvc,
		Sessions:  sessions,
		KeyParams: keyParams,
		Codec:     codec,
		Telemetry: telemetryMW,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
