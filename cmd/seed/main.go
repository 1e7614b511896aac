// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (alice) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"courier/backend/internal/config"
	"courier/backend/internal/db"
	"courier/backend/internal/keyexchange"
	messagedomain "courier/backend/internal/message/domain"
	messagerepo "courier/backend/internal/message/repository"
	"courier/backend/internal/security"
	userdomain "courier/backend/internal/user/domain"
	userrepo "courier/backend/internal/user/repository"
)

const (
	devUsername  = "alice"
	devUsername2 = "bob"
	devPassword  = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	messages := messagerepo.NewPostgresRepository(conn)

	existing, err := users.GetByUsername(ctx, devUsername)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (alice exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	codec, err := security.NewCodec(cfg.TokenEncoding)
	if err != nil {
		log.Fatalf("codec: %v", err)
	}
	publicKey, err := keyexchange.PublicKeyFromPassword(devPassword, codec)
	if err != nil {
		log.Fatalf("derive public key: %v", err)
	}

	now := time.Now().UTC()
	alice := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     devUsername,
		PasswordHash: passwordHash,
		PublicKey:    publicKey,
		CreatedAt:    now,
	}
	bob := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     devUsername2,
		PasswordHash: passwordHash,
		PublicKey:    publicKey,
		CreatedAt:    now,
	}
	if err := users.Create(ctx, alice); err != nil {
		log.Fatalf("create alice: %v", err)
	}
	if err := users.Create(ctx, bob); err != nil {
		log.Fatalf("create bob: %v", err)
	}

	seedMessages := []*messagedomain.Message{
		{Sender: alice.ID, Recipient: bob.ID, Content: "Hello!", CreatedAt: now},
		{Sender: bob.ID, Recipient: alice.ID, Content: "How are you?", CreatedAt: now},
		{Sender: alice.ID, Recipient: bob.ID, Content: "All good here.", CreatedAt: now},
	}
	for _, m := range seedMessages {
		if err := messages.Create(ctx, m); err != nil {
			log.Fatalf("create message: %v", err)
		}
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev logins: %s / %s and %s / %s\n", devUsername, devPassword, devUsername2, devPassword)
}
