// Package main provides the deploy command that uploads the built site to S3.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"yongpei/internal/config"
	"yongpei/internal/logger"
	"yongpei/internal/publish"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default configs/site.yaml if present)")
	dir := flag.String("dir", "", "Directory to upload (default site.build_dir)")
	bucket := flag.String("bucket", "", "S3 bucket (overrides publish.bucket)")
	prefix := flag.String("prefix", "", "Key prefix (overrides publish.prefix)")
	dryRun := flag.Bool("dry-run", false, "List the uploads without sending them")
	flag.Parse()

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Printf("%s[DEPLOY]%s Config error: %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}

	if *bucket != "" {
		cfg.Publish.Bucket = *bucket
	}

	if *prefix != "" {
		cfg.Publish.Prefix = *prefix
	}

	if *dir == "" {
		*dir = cfg.Site.BuildDir
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	ctx := context.Background()

	fmt.Printf("%s[DEPLOY]%s Deploying %s to s3://%s/%s\n", colorGreen, colorReset, *dir, cfg.Publish.Bucket, cfg.Publish.Prefix)

	publisher, err := publish.NewS3Publisher(ctx, cfg.Publish, log)
	if err != nil {
		fmt.Printf("%s[DEPLOY]%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}

	publisher.SetDryRun(*dryRun)

	result, err := publisher.Publish(ctx, *dir)
	if err != nil {
		fmt.Printf("%s[DEPLOY]%s Publish failed: %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}

	if len(result.Errors) > 0 {
		fmt.Printf("%s[DEPLOY]%s %d uploads failed\n", colorYellow, colorReset, len(result.Errors))

		for _, e := range result.Errors {
			fmt.Printf("  - %v\n", e)
		}

		os.Exit(1)
	}

	fmt.Printf("%s[DEPLOY]%s Uploaded %d files (%d bytes)\n", colorGreen, colorReset, result.Uploaded, result.Bytes)
}
