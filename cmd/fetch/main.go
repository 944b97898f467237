// Package main provides the fetch command that saves the vendor catalog and
// product details as a snapshot for offline builds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yongpei/internal/build"
	"yongpei/internal/config"
	"yongpei/internal/logger"
	"yongpei/internal/snapshot"
	"yongpei/internal/vendor"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default configs/site.yaml if present)")
	outDir := flag.String("out", "", "Snapshot directory (default snapshot.dir from config)")
	flag.Parse()

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	dir := *outDir
	if dir == "" {
		dir = cfg.Snapshot.Dir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("⚙️  %s\n", cfg)
	fmt.Printf("🌐 Fetching: %s\n", cfg.Vendor.CatalogURL)

	client := vendor.NewClient(cfg.Vendor)
	pipeline := build.New(cfg, client, client,
		build.WithLogger(logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)))

	data, err := pipeline.Collect(ctx)
	if err != nil {
		log.Fatalf("Error fetching catalog: %v\n", err)
	}

	fmt.Printf("📊 Fetched: %d categories, %d products, %d details (%d failed)\n",
		len(data.Catalog.Categories), len(data.Catalog.Products), len(data.Details), data.Enrich.Failed)

	if err := snapshot.Save(dir, data.Raw, data.Catalog, data.DetailList()); err != nil {
		log.Fatalf("Error saving snapshot: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", dir)
}
