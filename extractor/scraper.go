package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"umroh-scraper/adapters"
	"umroh-scraper/internal/types"
	"umroh-scraper/utils"
)

// ErrInvalidURL is returned for URLs that are not absolute http(s)/ftp URLs
var ErrInvalidURL = errors.New("invalid URL")

// Fetcher retrieves pages for the scraper
type Fetcher interface {
	GetPage(ctx context.Context, url string) (string, error)
	GetContactPage(ctx context.Context, baseURL string) (string, error)
}

// OrganizerScraper builds a raw organizer record from a website's homepage and contact page
type OrganizerScraper struct {
	fetcher   Fetcher
	extractor adapters.ContactExtractor
	logger    types.Logger
}

// NewOrganizerScraper creates a new organizer scraper
func NewOrganizerScraper(fetcher Fetcher, extractor adapters.ContactExtractor, logger types.Logger) *OrganizerScraper {
	return &OrganizerScraper{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// ScrapePage extracts the contact details of the site at url. Phones and emails
// are returned as found; cleaning is left to the caller.
func (s *OrganizerScraper) ScrapePage(ctx context.Context, url string) (*types.Organizer, error) {
	startTime := time.Now()

	if !utils.ValidateURL(url) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}

	// Step 1: homepage
	content, err := s.fetcher.GetPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get homepage: %w", err)
	}

	doc, err := adapters.ParseHTML(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse homepage: %w", err)
	}

	org := types.NewOrganizer(s.extractor.ExtractName(doc, url), url)
	addAll(org.PhoneNumbers, s.extractor.ExtractPhones(content))
	addAll(org.Emails, s.extractor.ExtractEmails(content))
	org.Address = s.extractor.ExtractAddress(doc)

	// Step 2: contact page, when the site has one
	baseURL, err := utils.BaseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	contactContent, err := s.fetcher.GetContactPage(ctx, baseURL)
	switch {
	case err == nil:
		addAll(org.PhoneNumbers, s.extractor.ExtractPhones(contactContent))
		addAll(org.Emails, s.extractor.ExtractEmails(contactContent))

		if org.Address == "" {
			if contactDoc, err := adapters.ParseHTML(contactContent); err == nil {
				org.Address = s.extractor.ExtractAddress(contactDoc)
			}
		}
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		s.logger.Debugf("No contact page for %s: %v", baseURL, err)
	}

	s.logger.Debugf("Scraped %s in %v: %d phones, %d emails, address found: %t",
		url, time.Since(startTime), org.PhoneNumbers.Len(), org.Emails.Len(), org.Address != "")
	return org, nil
}

func addAll(set *types.OrderedSet, values []string) {
	for _, v := range values {
		set.Add(v)
	}
}
