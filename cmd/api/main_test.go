package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umroh-scraper/adapters"
	"umroh-scraper/extractor"
	"umroh-scraper/internal/types"
	"umroh-scraper/utils"
)

func newTestServer() *Server {
	return NewServer(types.DefaultConfig(), logrus.New())
}

// stubSearch returns the same results for every query
type stubSearch struct {
	results []string
	onQuery func()
}

func (s *stubSearch) Search(ctx context.Context, query string, numResults int, lang string) ([]string, error) {
	if s.onQuery != nil {
		s.onQuery()
	}
	return s.results, nil
}

// stubFetcher serves fixed homepages and cancels the run when cancelOn's contact page is requested
type stubFetcher struct {
	pages    map[string]string
	cancelOn string
	cancel   context.CancelFunc
}

func (f *stubFetcher) GetPage(ctx context.Context, url string) (string, error) {
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return "", errors.New("page unavailable")
}

func (f *stubFetcher) GetContactPage(ctx context.Context, baseURL string) (string, error) {
	if baseURL == f.cancelOn {
		f.cancel()
		return "", ctx.Err()
	}
	return "", utils.ErrContactPageNotFound
}

func serverWith(search extractor.SearchEngine, fetcher extractor.Fetcher) *Server {
	server := newTestServer()
	server.newPipeline = func(config *types.Config, logger types.Logger) *extractor.Pipeline {
		return extractor.NewPipelineWith(config, logger, search, fetcher, adapters.NewHeuristicExtractor())
	}
	return server
}

func travelPage(name string) string {
	return `<html><head><title>` + name + `</title></head>
		<body>Paket umroh dan haji bersama travel terpercaya. Hubungi 0812-3456-7890</body></html>`
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHandleClean(t *testing.T) {
	body := `{"organizers":[
		{"name":"Example Travel","website_url":"https://example-travel.id","phone_numbers":["081234567890"],"created_at":"2024-01-01T08:00:00Z"},
		{"name":"Example Travel","website_url":"https://example-travel.id","address":"Jl. Mawar  No. 5","phone_numbers":["628199999999"],"emails":["Info@Example-Travel.id"]}
	]}`
	rec := httptest.NewRecorder()

	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clean", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var response APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.Len(t, response.Organizers, 1)

	org := response.Organizers[0]
	assert.Equal(t, []string{"6281234567890", "628199999999"}, org.PhoneNumbers.Values())
	assert.Equal(t, []string{"info@example-travel.id"}, org.Emails.Values())
	assert.Equal(t, "Jl. Mawar No. 5", org.Address)
}

func TestHandleClean_InvalidBody(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clean", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestHandleScrape_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleScrape_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/scrape", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleScrape_RejectsBlankKeywords(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestServer().Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(`{"keywords":["  "]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), types.ErrNoSearchKeywords.Error())
}

func TestHandleScrape_InterruptedReturnsPartialOrganizers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	search := &stubSearch{results: []string{"https://amanah.example/paket", "https://berkah.example/"}}
	fetcher := &stubFetcher{
		pages: map[string]string{
			"https://amanah.example": travelPage("Amanah Travel"),
			"https://berkah.example": travelPage("Berkah Tour"),
		},
		cancelOn: "https://berkah.example",
		cancel:   cancel,
	}

	req := httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(`{"keywords":["Paket Umroh"]}`)).WithContext(ctx)
	rec := httptest.NewRecorder()

	serverWith(search, fetcher).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Contains(t, response.Error, "run interrupted")
	require.Len(t, response.Organizers, 1)
	assert.Equal(t, "Amanah Travel", response.Organizers[0].Name)
	assert.Equal(t, "https://amanah.example", response.Organizers[0].WebsiteURL)
}

func TestHandleScrape_InterruptedWithNothingCollected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	search := &stubSearch{results: []string{"https://amanah.example/"}, onQuery: cancel}
	fetcher := &stubFetcher{pages: map[string]string{"https://amanah.example": travelPage("Amanah Travel")}}

	req := httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(`{"keywords":["Paket Umroh"]}`)).WithContext(ctx)
	rec := httptest.NewRecorder()

	serverWith(search, fetcher).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "run interrupted")
}
