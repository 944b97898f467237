// Package main provides the markdown formatter command-line tool. It realigns
// the tables in build reports and other markdown files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"yongpei/internal/formatter"
)

func main() {
	targetPath := flag.String("path", ".", "Path to file or directory to format")
	write := flag.Bool("write", false, "Write changes to file (default: false, dry-run)")
	flag.Parse()

	fmt.Printf("📂 Scanning path: %s\n", *targetPath)

	if *write {
		fmt.Println("✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	var count, changed int

	err := filepath.WalkDir(*targetPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		count++

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		formatted := formatter.FormatMarkdown(string(content))
		if formatted == string(content) {
			return nil
		}

		changed++

		if !*write {
			fmt.Printf("📝 Would format: %s\n", path)

			return nil
		}

		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		fmt.Printf("✅ Formatted: %s\n", path)

		return nil
	})
	if err != nil {
		log.Fatalf("Error formatting: %v\n", err)
	}

	fmt.Printf("\n📊 %d markdown files, %d need formatting\n", count, changed)
}
