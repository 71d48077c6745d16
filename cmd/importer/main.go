package main

import (
	"context"
	"flag"
	"log"
	"os"

	"freshmarket/internal/config"
	"freshmarket/internal/db"
	"freshmarket/internal/importer"
	promorepo "freshmarket/internal/repository/promo"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to promo-code CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open %s: %v", filePath, err)
	}
	defer f.Close()

	repo := promorepo.NewPostgres(pool, nil)
	count, err := importer.NewCSVImporter(f, repo).Run(ctx)
	if err != nil {
		log.Fatalf("import promos: %v", err)
	}

	log.Printf("imported %d promo codes", count)
}
