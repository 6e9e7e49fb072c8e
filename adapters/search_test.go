package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umroh-scraper/internal/types"
)

const resultsPage = `<html><body>
<a href="/search?q=paket+umroh&start=10">Next</a>
<a href="/url?q=https://travel-a.id/paket-umroh&sa=U&ved=abc">Travel A</a>
<a href="https://travel-b.co.id/">Travel B</a>
<a href="https://maps.google.com/?q=umroh">Maps</a>
<a href="#top">Top</a>
<a href="https://travel-b.co.id/">Travel B again</a>
<a href="https://travel-c.com/kontak">Travel C</a>
</body></html>`

func TestGoogleSearch_Search(t *testing.T) {
	var gotQuery, gotLang, gotNum string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("hl")
		gotNum = r.URL.Query().Get("num")
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	config := types.DefaultConfig()
	config.SearchBaseURL = server.URL + "/search"
	config.RequestDelay = 10 * time.Millisecond
	search := NewGoogleSearch(config, logrus.New())
	defer search.Close()

	results, err := search.Search(context.Background(), "Paket Umroh Indonesia", 10, "id")

	require.NoError(t, err)
	assert.Equal(t, "Paket Umroh Indonesia", gotQuery)
	assert.Equal(t, "id", gotLang)
	assert.Equal(t, "10", gotNum)
	assert.Equal(t, []string{
		"https://travel-a.id/paket-umroh",
		"https://travel-b.co.id/",
		"https://travel-c.com/kontak",
	}, results)
}

func TestGoogleSearch_LimitsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	config := types.DefaultConfig()
	config.SearchBaseURL = server.URL + "/search"
	config.RequestDelay = 10 * time.Millisecond
	search := NewGoogleSearch(config, logrus.New())
	defer search.Close()

	results, err := search.Search(context.Background(), "umroh", 2, "id")

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestGoogleSearch_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	config := types.DefaultConfig()
	config.SearchBaseURL = server.URL + "/search"
	config.RequestDelay = 10 * time.Millisecond
	search := NewGoogleSearch(config, logrus.New())
	defer search.Close()

	_, err := search.Search(context.Background(), "umroh", 10, "id")

	assert.Error(t, err)
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://travel-a.id/", unwrapRedirect("https://www.google.com/url?q=https://travel-a.id/&sa=U"))
	assert.Equal(t, "https://travel-b.id", unwrapRedirect("https://travel-b.id"))
	assert.Equal(t, "", unwrapRedirect("https://www.google.com/url?q=/relative"))
}
