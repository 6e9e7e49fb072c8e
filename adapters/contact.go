package adapters

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"umroh-scraper/utils"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ContactExtractor pulls contact details out of a fetched page.
// Implementations are heuristics; an empty result is a valid answer.
type ContactExtractor interface {
	ExtractPhones(text string) []string
	ExtractEmails(text string) []string
	ExtractAddress(doc *goquery.Document) string
	ExtractName(doc *goquery.Document, pageURL string) string
}

var (
	// Written forms of Indonesian numbers: +62..., 0..., 62... and (0xx) ...
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+62[0-9\-\s]{8,}`),
		regexp.MustCompile(`0[0-9\-\s]{8,}`),
		regexp.MustCompile(`62[0-9\-\s]{8,}`),
		regexp.MustCompile(`[\(\s]0[0-9\-\s\)]{8,}`),
	}
	phoneSeparators = regexp.MustCompile(`[\s()\-]`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	titleSuffixPattern = regexp.MustCompile(`(?s)[-|].*$`)
	leadingWWW         = regexp.MustCompile(`^www\.`)
)

var (
	addressKeywords  = []string{"alamat", "address", "location", "lokasi"}
	addressMarkers   = []string{"jl", "jalan", "street"}
	addressLineHints = []string{"jl", "jalan", "street", "no", "rt", "rw"}
)

const minAddressLength = 10

// HeuristicExtractor extracts contacts with regular expressions and
// keyword searches tuned for Indonesian small-business sites
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates a new heuristic extractor
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// ExtractPhones returns the distinct valid phone numbers found in text, in first-seen order.
// Separators are removed but numbers are not normalized.
func (e *HeuristicExtractor) ExtractPhones(text string) []string {
	seen := make(map[string]bool)
	phones := []string{}

	for _, pattern := range phonePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			phone := phoneSeparators.ReplaceAllString(match, "")
			if seen[phone] || !utils.ValidatePhone(phone) {
				continue
			}
			seen[phone] = true
			phones = append(phones, phone)
		}
	}

	return phones
}

// ExtractEmails returns the distinct valid, lower-cased email addresses found in text
func (e *HeuristicExtractor) ExtractEmails(text string) []string {
	seen := make(map[string]bool)
	emails := []string{}

	for _, match := range emailPattern.FindAllString(text, -1) {
		email := strings.ToLower(match)
		if seen[email] || !utils.ValidateEmail(email) {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}

	return emails
}

// ExtractAddress looks for an element mentioning an address keyword and returns the
// street-looking lines of its parent. The first qualifying candidate wins.
func (e *HeuristicExtractor) ExtractAddress(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	for _, keyword := range addressKeywords {
		var address string
		doc.Find("*").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if !ownTextContains(s, keyword) {
				return true
			}

			parent := s.Parent()
			if parent.Length() == 0 {
				return true
			}

			if candidate, ok := addressFromText(strings.TrimSpace(parent.Text())); ok {
				address = candidate
				return false
			}
			return true
		})

		if address != "" {
			return address
		}
	}

	return ""
}

// ownTextContains reports whether the text nodes directly under s contain keyword
func ownTextContains(s *goquery.Selection, keyword string) bool {
	switch goquery.NodeName(s) {
	case "script", "style", "noscript", "html", "head":
		return false
	}

	var own strings.Builder
	for _, node := range s.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				own.WriteString(child.Data)
			}
		}
	}
	return strings.Contains(strings.ToLower(own.String()), keyword)
}

// addressFromText accepts text that is long enough and names a street, keeping only address-like lines
func addressFromText(text string) (string, bool) {
	lower := strings.ToLower(text)
	if utf8.RuneCountInString(text) <= minAddressLength || !containsAny(lower, addressMarkers) {
		return "", false
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if containsAny(strings.ToLower(line), addressLineHints) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, " "), true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ExtractName returns the organization name from the page title, the header logo
// or, failing both, the site's domain
func (e *HeuristicExtractor) ExtractName(doc *goquery.Document, pageURL string) string {
	if doc != nil {
		// Step 1: title without its "- tagline" or "| tagline" suffix
		if title, err := ExtractText(doc, "title"); err == nil {
			if name := strings.TrimSpace(titleSuffixPattern.ReplaceAllString(title, "")); name != "" {
				return name
			}
		}

		// Step 2: logo alt text inside the page header
		if alt, err := ExtractAttribute(doc, "header img[alt]", "alt"); err == nil && alt != "" {
			return alt
		}
	}

	// Step 3: domain name
	return nameFromDomain(pageURL)
}

// nameFromDomain turns "https://www.example-travel.co.id" into "Example Travel"
func nameFromDomain(pageURL string) string {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || u.Hostname() == "" {
		return strings.TrimSpace(pageURL)
	}

	host := leadingWWW.ReplaceAllString(u.Hostname(), "")
	label := strings.SplitN(host, ".", 2)[0]
	return titleCase(strings.ReplaceAll(label, "-", " "))
}

// titleCase upper-cases every letter that follows a non-letter and lower-cases the rest
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
