package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/noah-isme/hallticket-portal/migrations"
	"github.com/noah-isme/hallticket-portal/pkg/config"
	"github.com/noah-isme/hallticket-portal/pkg/database"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrator [up|down|status|version]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database, cfg.Store.Timeout)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	switch command {
	case "up", "down", "status", "version":
		if err := goose.Run(command, db.DB, "."); err != nil {
			log.Fatalf("migrate %s: %v", command, err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
