package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"customer-nav/internal/config"
	"customer-nav/internal/excel"
	"customer-nav/internal/models"
	"customer-nav/internal/store"
)

func main() {
	InitLogging()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	if err := seedStore(context.Background(), st, cfg.Store); err != nil {
		log.Fatalf("seed: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	srv := NewServer(cfg, st)
	r := srv.Router()
	srv.RegisterPages(r)

	log.Printf("Customer map server running on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}

// seedStore fills an empty store from the configured sheet, or with the sample
// customers when no sheet is configured.
func seedStore(ctx context.Context, st *store.Store, cfg config.StoreConfig) error {
	customers := store.SampleCustomers
	if cfg.SeedFile != "" {
		var err error
		customers, err = readSeedFile(cfg.SeedFile, cfg.SeedSheet)
		if err != nil {
			return err
		}
	}

	seeded, err := st.Seed(ctx, customers)
	if err != nil {
		return err
	}
	if seeded {
		log.Printf("Seeded store with %d customers", len(customers))
	}
	return nil
}

func readSeedFile(path, sheet string) ([]models.Customer, error) {
	f, err := excel.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return excel.ReadCustomers(f, sheet, func(row int, reason string) {
		log.Printf("Seed row %d skipped: %s", row, reason)
	})
}
