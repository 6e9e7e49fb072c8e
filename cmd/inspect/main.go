package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"umroh-scraper/adapters"
	"umroh-scraper/cleaner"
	"umroh-scraper/extractor"
	"umroh-scraper/internal/logging"
	"umroh-scraper/internal/types"
)

var (
	useBrowser bool
	showLinks  bool
)

var rootCmd = &cobra.Command{
	Use:   "inspect <url>",
	Short: "Scrape a single website and print what the extractors find",
	Args:  cobra.ExactArgs(1),
	RunE:  inspect,
}

func init() {
	rootCmd.Flags().BoolVar(&useBrowser, "browser", false, "Render the homepage with a headless browser for the --links listing (contact extraction always uses HTTP)")
	rootCmd.Flags().BoolVar(&showLinks, "links", false, "Also list the links found on the homepage")
}

func inspect(cmd *cobra.Command, args []string) error {
	url := strings.TrimSpace(args[0])

	logger, closeLog, err := logging.NewLogger(logging.Options{Verbose: true})
	if err != nil {
		return err
	}
	defer closeLog()

	config := types.DefaultConfig()
	config.UseHeadlessBrowser = useBrowser

	base := adapters.NewBaseAdapter(config, logger)
	defer base.Close()

	ctx := context.Background()

	if showLinks {
		html, err := base.GetPageContent(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to get homepage: %w", err)
		}
		doc, err := adapters.ParseHTML(html)
		if err != nil {
			return fmt.Errorf("failed to parse homepage: %w", err)
		}

		links := base.RemoveDuplicateURLs(base.ExtractLinks(doc, url))
		fmt.Printf("Total links found: %d\n", len(links))
		for i, link := range links {
			fmt.Printf("  %d: %s\n", i+1, link)
		}

		travelKeywords := extractor.CountTravelKeywords(html, config.TravelKeywords)
		fmt.Printf("Travel keywords matched: %d (threshold %d)\n", travelKeywords, config.MinKeywordMatches)
	}

	scraper := extractor.NewOrganizerScraper(base, adapters.NewHeuristicExtractor(), logger)
	raw, err := scraper.ScrapePage(ctx, url)
	if err != nil {
		return err
	}

	fmt.Println("=== Raw record ===")
	if err := printJSON(raw); err != nil {
		return err
	}

	// Cleaning works in place, so the raw record is printed first
	cleaned := cleaner.NewCleaner(config, logger).CleanOrganizer(raw)
	fmt.Println("=== Cleaned record ===")
	return printJSON(cleaned)
}

func printJSON(org *types.Organizer) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(org)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
