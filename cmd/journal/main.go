package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	adapthttp "journal/internal/adapter/http"
	"journal/internal/adapter/postgres"
	"journal/internal/app"
)

func main() {
	addr := env("ADDR", ":8080")

	dbHost := env("DB_HOST", "localhost")
	dbPort := env("DB_PORT", "5432")
	dbName := env("DB_NAME", "journal")
	dbSSLMode := env("DB_SSLMODE", "require")

	// Credentials have no defaults.
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	if dbUser == "" || dbPassword == "" {
		log.Fatal("DB_USER and DB_PASSWORD are required")
	}

	connStr := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		dbHost, dbPort, dbName, dbUser, dbPassword, dbSSLMode)

	db, err := postgres.Open(connStr)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	sessionRepo := postgres.NewSessionRepo(db)
	entryRepo := postgres.NewEntryRepo(db)

	authSvc := app.NewAuthService(db, sessionRepo)
	entrySvc := app.NewEntryService(entryRepo)

	h := adapthttp.New(authSvc, entrySvc).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
