// Package main provides the build command that stages assets, fetches the
// vendor catalog and writes the static site.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"yongpei/internal/build"
	"yongpei/internal/config"
	"yongpei/internal/enricher"
	"yongpei/internal/formatter"
	"yongpei/internal/logger"
	"yongpei/internal/metrics"
	"yongpei/internal/snapshot"
	"yongpei/internal/vendor"
)

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	configPath := flag.String("config", "", "Path to YAML config (default configs/site.yaml if present)")
	snapshotDir := flag.String("snapshot", "", "Build from a saved snapshot directory instead of the vendor API")
	skipDetails := flag.Bool("skip-details", false, "Build from listing data only")
	verbose := flag.Bool("v", false, "Debug logging (overrides logging.level)")
	flag.Parse()

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if *verbose {
		log.SetLevel("debug")
	}

	log.Debug(fmt.Sprintf("⚙️  %s", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.NewRecorder()

	// 2. Pick Data Source
	// -------------------
	var (
		source  build.CatalogSource
		details enricher.DetailFetcher
		opts    = []build.Option{build.WithLogger(log), build.WithMetrics(rec)}
	)

	if *snapshotDir != "" {
		store, openErr := snapshot.Open(*snapshotDir)
		if openErr != nil {
			log.Error(fmt.Sprintf("❌ Snapshot open failed: %v", openErr))
			os.Exit(1)
		}

		log.Info(fmt.Sprintf("📂 Source: snapshot %s (%d details)", *snapshotDir, store.Len()))

		source, details = store, store
		opts = append(opts, build.WithoutPacing())
	} else {
		client := vendor.NewClient(cfg.Vendor, vendor.WithMetrics(rec))

		log.Info(fmt.Sprintf("📍 Source: %s", cfg.Vendor.CatalogURL))

		source, details = client, client
	}

	if *skipDetails {
		details = nil
	}

	// 3. Build
	// --------
	log.Info("🚀 Starting site build")
	log.Info(fmt.Sprintf("🎯 Output: %s", cfg.Site.BuildDir))

	pipeline := build.New(cfg, source, details, opts...)

	report, err := pipeline.Run(ctx)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Build failed: %v", err))
		os.Exit(1)
	}

	// 4. Final Report
	// ---------------
	log.Info("✨ Build Complete!")
	fmt.Println(formatter.FormatReport(report))

	if len(report.Failures) > 0 {
		log.Warn(fmt.Sprintf("⚠️  %d items skipped", len(report.Failures)))
	}
}
