package extractor

import (
	"context"
	"fmt"
	"time"

	"umroh-scraper/adapters"
	"umroh-scraper/cleaner"
	"umroh-scraper/exporter"
	"umroh-scraper/internal/types"
)

// Pipeline runs the scrape in strictly sequential stages:
// Discover, Filter, Scrape, Clean & Merge, Export.
// Each stage consumes the full output of the previous one.
type Pipeline struct {
	config   *types.Config
	logger   types.Logger
	search   SearchEngine
	fetcher  Fetcher
	scraper  *OrganizerScraper
	cleaner  *cleaner.Cleaner
	exporter *exporter.Exporter
	closers  []func()
}

// NewPipeline creates a pipeline that searches Google and fetches sites over HTTP
func NewPipeline(config *types.Config, logger types.Logger) *Pipeline {
	search := adapters.NewGoogleSearch(config, logger)
	fetcher := adapters.NewBaseAdapter(config, logger)

	p := NewPipelineWith(config, logger, search, fetcher, adapters.NewHeuristicExtractor())
	p.closers = append(p.closers, search.Close, fetcher.Close)
	return p
}

// NewPipelineWith creates a pipeline from the given collaborators
func NewPipelineWith(config *types.Config, logger types.Logger, search SearchEngine, fetcher Fetcher, contacts adapters.ContactExtractor) *Pipeline {
	return &Pipeline{
		config:   config,
		logger:   logger,
		search:   search,
		fetcher:  fetcher,
		scraper:  NewOrganizerScraper(fetcher, contacts, logger),
		cleaner:  cleaner.NewCleaner(config, logger),
		exporter: exporter.NewExporter(config, logger),
	}
}

// Scrape extracts an organizer from every website. Sites that fail are logged and dropped.
func (p *Pipeline) Scrape(ctx context.Context, urls []string) []*types.Organizer {
	organizers := []*types.Organizer{}

	for i, url := range urls {
		if ctx.Err() != nil {
			p.logger.Warnf("Scraping interrupted, %d websites not scraped", len(urls)-i)
			break
		}

		p.logger.Debugf("Scraping website %d/%d: %s", i+1, len(urls), url)
		org, err := p.scraper.ScrapePage(ctx, url)
		if err != nil {
			p.logger.Errorf("Error scraping %s: %v", url, err)
			continue
		}
		organizers = append(organizers, org)
	}

	return organizers
}

// Collect runs every stage up to and including Clean & Merge
func (p *Pipeline) Collect(ctx context.Context, numResults int) ([]*types.Organizer, error) {
	startTime := time.Now()

	// Step 1: Discover candidate websites
	p.logger.Info("Step 1: Searching for websites...")
	websites, err := p.Discover(ctx, numResults)
	if err != nil {
		p.logger.Warnf("Discovery ended early: %v", err)
	}
	p.logger.Infof("Found %d potential websites", len(websites))

	// Step 2: Keep travel websites
	p.logger.Info("Step 2: Filtering travel websites...")
	valid := p.Filter(ctx, websites)
	p.logger.Infof("Filtered down to %d valid travel websites", len(valid))

	// Step 3: Scrape contact details
	p.logger.Info("Step 3: Scraping contact information...")
	organizers := p.Scrape(ctx, valid)
	p.logger.Infof("Successfully scraped %d organizers", len(organizers))

	// Step 4: Clean and merge
	p.logger.Info("Step 4: Cleaning and deduplicating data...")
	cleaned := p.cleaner.CleanDataset(organizers)
	p.logger.Infof("Data cleaned, %d unique organizers remaining (%v)", len(cleaned), time.Since(startTime))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return cleaned, fmt.Errorf("run interrupted: %w", ctxErr)
	}
	return cleaned, nil
}

// Export writes organizers to CSV and returns the file path.
// An empty filename gets a timestamped default name.
func (p *Pipeline) Export(organizers []*types.Organizer, filename string) (string, error) {
	path, err := p.exporter.ToCSV(organizers, filename)
	if err != nil {
		return "", fmt.Errorf("failed to export results: %w", err)
	}
	return path, nil
}

// Run executes the whole pipeline and returns the path of the exported CSV file
func (p *Pipeline) Run(ctx context.Context, numResults int) (string, error) {
	organizers, err := p.Collect(ctx, numResults)
	if err != nil {
		return "", err
	}

	// Step 5: Export
	p.logger.Info("Step 5: Exporting results to CSV...")
	path, err := p.Export(organizers, "")
	if err != nil {
		return "", err
	}

	p.logger.Infof("Results exported to %s", path)
	return path, nil
}

// Close cleans up resources
func (p *Pipeline) Close() {
	for _, closeFn := range p.closers {
		closeFn()
	}
}
