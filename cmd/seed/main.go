package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-identity/config"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

// Seeds a verified admin account for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	username := "admin"
	password := "Admin@12345"

	pw, err := valueobject.PasswordFromPlainText(password)
	if err != nil {
		log.Fatalf("invalid password: %v", err)
	}
	hashed, err := pw.Hash()
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, first_name, last_name, role, is_active, is_verified, email_verified_at)
		VALUES ($1, $2, $3, $4, $5, 'admin', TRUE, TRUE, NOW())
		ON CONFLICT (email) DO UPDATE SET role = 'admin', is_active = TRUE
		RETURNING user_id
	`, username, email, hashed.Value(), "System", "Admin").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%d email=%s password=%s\n", id, email, password)
}
