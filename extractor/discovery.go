package extractor

import (
	"context"
	"fmt"
	"strings"

	"umroh-scraper/internal/types"
	"umroh-scraper/utils"
)

// SearchEngine returns candidate result URLs for a query
type SearchEngine interface {
	Search(ctx context.Context, query string, numResults int, lang string) ([]string, error)
}

// Discover searches every configured keyword and returns the distinct site
// origins found, in first-seen order. Failures for a single keyword or result
// are logged and skipped. If the whole stage fails, the origins collected so
// far are returned together with the error.
func (p *Pipeline) Discover(ctx context.Context, numResults int) (urls []string, err error) {
	found := types.NewOrderedSet()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("discovery aborted: %v", r)
		}
		if err != nil {
			p.logger.Errorf("Fatal error during discovery, keeping %d websites found so far: %v", found.Len(), err)
		}
		urls = found.Values()
	}()

	for i, keyword := range p.config.SearchKeywords {
		if i > 0 {
			// Pause between keywords
			if err := utils.SleepContext(ctx, 2*p.config.RequestDelay); err != nil {
				return nil, fmt.Errorf("discovery interrupted: %w", err)
			}
		}

		query := strings.TrimSpace(keyword + " " + p.config.SearchSuffix)
		p.logger.Infof("Searching for: %s", query)

		results, err := p.search.Search(ctx, query, numResults, p.config.SearchLanguage)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("discovery interrupted: %w", ctxErr)
			}
			p.logger.Errorf("Error during search for keyword %q: %v", keyword, err)
			continue
		}

		for _, result := range results {
			baseURL, err := utils.BaseURL(result)
			if err != nil {
				p.logger.Warnf("Error processing URL %s: %v", result, err)
				continue
			}
			if found.Add(baseURL) {
				p.logger.Infof("Found new website: %s", baseURL)
			}
		}
	}

	return found.Values(), nil
}

// Filter keeps the websites whose homepage mentions enough travel keywords.
// Sites that cannot be fetched are dropped.
func (p *Pipeline) Filter(ctx context.Context, urls []string) []string {
	valid := []string{}

	for i, url := range urls {
		if ctx.Err() != nil {
			p.logger.Warnf("Filtering interrupted, %d websites not checked", len(urls)-i)
			break
		}

		content, err := p.fetcher.GetPage(ctx, url)
		if err != nil {
			p.logger.Errorf("Error validating website %s: %v", url, err)
			continue
		}

		matches := CountTravelKeywords(content, p.config.TravelKeywords)
		if matches >= p.config.MinKeywordMatches {
			p.logger.Infof("Validated travel website: %s (%d keywords)", url, matches)
			valid = append(valid, url)
		} else {
			p.logger.Infof("Skipping non-travel website: %s (%d keywords)", url, matches)
		}
	}

	return valid
}

// CountTravelKeywords returns how many of keywords occur in content, case-insensitively
func CountTravelKeywords(content string, keywords []string) int {
	lower := strings.ToLower(content)
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			count++
		}
	}
	return count
}
