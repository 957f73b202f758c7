package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/ecs-booking-api/pkg/config"
	"github.com/noah-isme/ecs-booking-api/pkg/database"
)

// Seeds or updates an admin account. Intended for initial setup:
//
//	go run ./scripts/seedadmin -email admin@excels.edu.gh -password 'changeme' -name "Site Admin"
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "Site Admin", "full name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const query = `
INSERT INTO admin_users (email, password_hash, full_name, role, active)
VALUES ($1, $2, $3, 'ADMIN', true)
ON CONFLICT (email) DO UPDATE
SET password_hash = EXCLUDED.password_hash,
    full_name = EXCLUDED.full_name,
    active = true`
	if _, err := db.ExecContext(ctx, query, *email, string(hash), *name); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	log.Printf("admin account ready: %s", *email)
}
