package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"umroh-scraper/cleaner"
	"umroh-scraper/exporter"
	"umroh-scraper/extractor"
	"umroh-scraper/internal/logging"
	"umroh-scraper/internal/types"
)

const appName = "umroh-scraper"

// Flags shared by every subcommand
var (
	configPath   string
	verbose      bool
	logFile      string
	outputFile   string
	exportDir    string
	strictPhones bool
)

// Flags of the run subcommand
var (
	numResults   int
	requestDelay time.Duration
	maxRetries   int
	timeout      time.Duration
	useBrowser   bool
	runTimeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Find Haji & Umroh travel organizers and export their contact details",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search, filter and scrape travel websites, then export a CSV",
	Args:  cobra.NoArgs,
	RunE:  runScrape,
}

var cleanCmd = &cobra.Command{
	Use:   "clean <file.csv>...",
	Short: "Clean and merge previously exported CSV files into one",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClean,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output", "", "Output CSV filename (default: timestamped name in the export directory)")
	rootCmd.PersistentFlags().StringVar(&exportDir, "export-dir", "", "Directory for exported CSV files")
	rootCmd.PersistentFlags().BoolVar(&strictPhones, "strict-phones", false, "Reject phone numbers that are not dialable Indonesian numbers")

	runCmd.Flags().IntVar(&numResults, "results", 0, "Search results per keyword (default from config)")
	runCmd.Flags().DurationVar(&requestDelay, "delay", 0, "Delay between requests")
	runCmd.Flags().IntVar(&maxRetries, "retries", 0, "Maximum retry attempts")
	runCmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout")
	runCmd.Flags().BoolVar(&useBrowser, "browser", false, "Use headless browser for search pages")
	runCmd.Flags().DurationVar(&runTimeout, "run-timeout", 2*time.Hour, "Maximum duration of the whole run")

	rootCmd.AddCommand(runCmd, cleanCmd)
}

// loadConfig reads the configuration and applies flags the user set explicitly
func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	config, err := types.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("results") {
		config.ResultsPerKeyword = numResults
	}
	if flags.Changed("delay") {
		config.RequestDelay = requestDelay
	}
	if flags.Changed("retries") {
		config.MaxRetries = maxRetries
	}
	if flags.Changed("timeout") {
		config.Timeout = timeout
	}
	if flags.Changed("browser") {
		config.UseHeadlessBrowser = useBrowser
	}
	if flags.Changed("strict-phones") {
		config.StrictPhoneValidation = strictPhones
	}
	if flags.Changed("export-dir") {
		config.ExportDirectory = exportDir
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func setupLogger() (*logrus.Logger, func(), error) {
	return logging.NewLogger(logging.Options{Verbose: verbose, LogFile: logFile})
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runLogger := logging.WithRunID(logger)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	pipeline := extractor.NewPipeline(config, runLogger)
	defer pipeline.Close()

	startTime := time.Now()
	runLogger.Infof("Starting scrape for %d keywords", len(config.SearchKeywords))

	organizers, runErr := pipeline.Collect(ctx, config.ResultsPerKeyword)
	if runErr != nil {
		runLogger.Errorf("Error in scraping process: %v", runErr)
		if len(organizers) == 0 {
			return runErr
		}
		runLogger.Warnf("Exporting %d organizers collected before the interruption", len(organizers))
	}

	path, err := pipeline.Export(organizers, outputFile)
	if err != nil {
		return err
	}

	runLogger.Infof("Scraping completed in %v", time.Since(startTime))
	runLogger.Infof("Results saved to: %s", path)
	fmt.Println(path)
	return runErr
}

func runClean(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	csvExporter := exporter.NewExporter(config, logger)

	var organizers []*types.Organizer
	for _, path := range args {
		loaded, err := csvExporter.LoadFromCSV(path)
		if err != nil {
			return err
		}
		organizers = append(organizers, loaded...)
	}

	cleaned := cleaner.NewCleaner(config, logger).CleanDataset(organizers)

	path, err := csvExporter.ToCSV(cleaned, outputFile)
	if err != nil {
		return err
	}

	logger.Infof("Merged %d records from %d files into %d organizers", len(organizers), len(args), len(cleaned))
	fmt.Println(path)
	return nil
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
