package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pazarmk/pazar-backend/internal/config"
	"github.com/pazarmk/pazar-backend/internal/db"
	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/server"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	srv := server.New(nil, os.Getenv("STORAGE_BUCKET"), gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// The DB attaches asynchronously so a slow Cloud SQL connection doesn't
	// delay the health endpoint.
	go func() {
		cfg, err := config.Load()
		if err != nil {
			log.Printf("config load error: %v", err)
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(
			&model.UserProfile{},
			&model.Category{},
			&model.Listing{},
			&model.ListingImage{},
			&model.Conversation{},
			&model.Message{},
			&model.Notification{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
