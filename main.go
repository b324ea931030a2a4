package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"salesdesk/internal/backend"
	"salesdesk/internal/config"
	"salesdesk/internal/database"
	"salesdesk/internal/gateway"
	"salesdesk/internal/migrations"
	"salesdesk/internal/settings"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.SettingsDSN)
	defer db.Close()

	migrations.Run(db)

	store := settings.NewStore(db)
	snapshot, err := store.Load()
	if err != nil {
		log.Fatalf("unable to load settings: %v", err)
	}

	handler := gateway.New(store, snapshot, func(token backend.TokenSource) *backend.Client {
		return backend.New(cfg.BackendURL, cfg.RequestTimeout, token)
	})

	log.Printf("salesdesk dashboard starting on :%s (backend %s)", cfg.HTTPPort, cfg.BackendURL)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
