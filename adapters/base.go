package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"umroh-scraper/internal/types"
	"umroh-scraper/utils"

	"github.com/PuerkitoBio/goquery"
)

// BaseAdapter provides the fetch and parse plumbing shared by the search
// and scraping adapters. Pages come from the HTTP client by default, or from
// a headless browser when UseHeadlessBrowser is set.
type BaseAdapter struct {
	config        *types.Config        // Timeouts, delays, browser switch
	logger        types.Logger         // Structured logging interface
	httpClient    *utils.HTTPClient    // HTTP client for standard requests
	browserClient *utils.BrowserClient // Headless browser client for dynamic content
}

// NewBaseAdapter creates a new base adapter with initialized HTTP and browser clients
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	return &BaseAdapter{
		config:        config,
		logger:        logger,
		httpClient:    utils.NewHTTPClient(config, logger),
		browserClient: utils.NewBrowserClient(config, logger),
	}
}

// GetPageContent retrieves the HTML content of a page using either the HTTP client or the headless browser
func (b *BaseAdapter) GetPageContent(ctx context.Context, url string) (string, error) {
	if b.config.UseHeadlessBrowser {
		return b.browserClient.GetPageContent(ctx, url)
	}

	return b.httpClient.GetPage(ctx, url)
}

// GetPage fetches a page through the HTTP client
func (b *BaseAdapter) GetPage(ctx context.Context, url string) (string, error) {
	return b.httpClient.GetPage(ctx, url)
}

// GetContactPage looks for a contact page under the site origin
func (b *BaseAdapter) GetContactPage(ctx context.Context, baseURL string) (string, error) {
	return b.httpClient.GetContactPage(ctx, baseURL)
}

// ParseHTML parses HTML content into a goquery document
func ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// ExtractText returns the trimmed text of the first element matching selector
func ExtractText(doc *goquery.Document, selector string) (string, error) {
	element := doc.Find(selector).First()
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}

	return strings.TrimSpace(element.Text()), nil
}

// ExtractAttribute returns the trimmed attribute value of the first element matching selector
func ExtractAttribute(doc *goquery.Document, selector string, attribute string) (string, error) {
	element := doc.Find(selector).First()
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}

	value, exists := element.Attr(attribute)
	if !exists {
		return "", fmt.Errorf("attribute %s not found on element %s", attribute, selector)
	}

	return strings.TrimSpace(value), nil
}

// ExtractLinks returns every anchor href in the document, resolved against baseURL.
// Fragments, javascript: and mailto: links are skipped.
func (b *BaseAdapter) ExtractLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		links = append(links, resolved.String())
	})

	return links
}

// RemoveDuplicateURLs removes duplicate URLs from the slice, keeping the first occurrence
func (b *BaseAdapter) RemoveDuplicateURLs(urls []string) []string {
	seen := make(map[string]bool)
	var uniqueURLs []string

	for _, url := range urls {
		if !seen[url] {
			seen[url] = true
			uniqueURLs = append(uniqueURLs, url)
		}
	}

	return uniqueURLs
}

// Close cleans up resources
func (b *BaseAdapter) Close() {
	if b.httpClient != nil {
		b.httpClient.Close()
	}
}
