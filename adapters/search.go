package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"umroh-scraper/internal/types"
)

// GoogleSearch finds candidate websites by scraping a search results page
type GoogleSearch struct {
	*BaseAdapter
}

// NewGoogleSearch creates a new search adapter
func NewGoogleSearch(config *types.Config, logger types.Logger) *GoogleSearch {
	return &GoogleSearch{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// Search returns up to numResults distinct result URLs for query, in ranking order
func (g *GoogleSearch) Search(ctx context.Context, query string, numResults int, lang string) ([]string, error) {
	searchURL, err := g.buildSearchURL(query, numResults, lang)
	if err != nil {
		return nil, err
	}

	g.logger.Debugf("Fetching search results: %s", searchURL)

	html, err := g.GetPageContent(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get search results for %q: %w", query, err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	searchHost := hostOf(searchURL)
	var results []string
	for _, link := range g.RemoveDuplicateURLs(g.ExtractLinks(doc, searchURL)) {
		target := unwrapRedirect(link)
		if target == "" || isSearchEngineHost(hostOf(target), searchHost) {
			continue
		}
		results = append(results, target)
	}

	results = g.RemoveDuplicateURLs(results)
	if numResults > 0 && len(results) > numResults {
		results = results[:numResults]
	}

	g.logger.Debugf("Search for %q returned %d results", query, len(results))
	return results, nil
}

func (g *GoogleSearch) buildSearchURL(query string, numResults int, lang string) (string, error) {
	base, err := url.Parse(g.config.SearchBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid search base URL: %w", err)
	}

	params := base.Query()
	params.Set("q", query)
	if numResults > 0 {
		params.Set("num", strconv.Itoa(numResults))
	}
	if lang != "" {
		params.Set("hl", lang)
	}
	base.RawQuery = params.Encode()
	return base.String(), nil
}

// unwrapRedirect returns the destination of a "/url?q=..." result link, or link itself
func unwrapRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if u.Path != "/url" {
		return link
	}

	for _, key := range []string{"q", "url"} {
		target := u.Query().Get(key)
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			return target
		}
	}
	return ""
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// isSearchEngineHost reports whether host belongs to the search engine rather than a result site
func isSearchEngineHost(host, searchHost string) bool {
	if host == "" || host == searchHost {
		return true
	}
	for _, owned := range []string{"google.", "gstatic.com", "googleusercontent.com", "youtube.com"} {
		if strings.Contains(host, owned) {
			return true
		}
	}
	return false
}
