package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/rescuetrack/internal/config"
	"github.com/dropDatabas3/rescuetrack/internal/store/pg"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.example.yaml", "ruta al config YAML")
		dir        = flag.String("dir", "migrations/postgres", "directorio con *_up.sql y *_down.sql")
	)
	flag.Parse()

	_ = godotenv.Load()

	action := "up"
	if args := flag.Args(); len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !strings.EqualFold(cfg.Storage.Driver, "postgres") {
		log.Fatalf("migrate: requiere storage.driver=postgres (actual: %s)", cfg.Storage.Driver)
	}

	ctx := context.Background()
	store, err := pg.Connect(ctx, pg.Config{DSN: cfg.Storage.DSN})
	if err != nil {
		log.Fatalf("pg connect: %v", err)
	}
	defer store.Close()

	switch action {
	case "up":
		if err := store.RunMigrations(ctx, *dir); err != nil {
			log.Fatalf("up: %v", err)
		}
		log.Println("up migrations completed")
	case "down":
		if err := store.RunMigrationsDown(ctx, *dir); err != nil {
			log.Fatalf("down: %v", err)
		}
		log.Println("down migrations completed")
	default:
		log.Printf("unknown action %q. Use: up | down", action)
		os.Exit(2)
	}
}
