package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/internal/config"
	"github.com/vidgrab/vidgrab/internal/extractor"
)

var batchDownload bool

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Look up (or download) every URL listed in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(args[0])
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchDownload, "download", false, "download each URL instead of printing metadata")
}

// runBatch reads URLs from a file, one per line, and processes each one
func runBatch(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in file")
	}

	fmt.Printf("Found %d URL(s)\n\n", len(urls))

	if batchDownload {
		return runBatchDownload(urls)
	}
	return runBatchInfo(urls)
}

func runBatchInfo(urls []string) error {
	cfg := config.LoadOrDefault()
	driver, probe := newToolchain(cfg)
	svc := extractor.New(driver, probe)

	results, err := svc.Batch(context.Background(), urls)
	if err != nil {
		return err
	}

	succeeded := 0
	for i, r := range results {
		fmt.Printf("[%d/%d] %s\n", i+1, len(results), truncateURL(r.URL, 60))
		if r.Success {
			fmt.Printf("  %s %s\n", color.GreenString("✓"), r.Title)
			succeeded++
		} else {
			fmt.Printf("  %s %s\n", color.RedString("✗"), r.Error)
		}
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("Completed: %d/%d", succeeded, len(results))
	if failed := len(results) - succeeded; failed > 0 {
		fmt.Printf(", Failed: %d", failed)
	}
	fmt.Println()
	return nil
}

func runBatchDownload(urls []string) error {
	var succeeded, failed int
	var failedURLs []string

	for i, url := range urls {
		fmt.Printf("[%d/%d] %s\n", i+1, len(urls), truncateURL(url, 60))
		if err := runDownload(url); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
			failed++
			failedURLs = append(failedURLs, url)
		} else {
			succeeded++
		}
		fmt.Println()
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("Completed: %d/%d", succeeded, len(urls))
	if failed > 0 {
		fmt.Printf(", Failed: %d", failed)
	}
	fmt.Println()

	if len(failedURLs) > 0 {
		fmt.Println("\nFailed URLs:")
		for _, url := range failedURLs {
			fmt.Printf("  - %s\n", url)
		}
	}
	return nil
}

// truncateURL shortens a URL for display
func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}
