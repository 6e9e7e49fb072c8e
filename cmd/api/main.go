package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"umroh-scraper/cleaner"
	"umroh-scraper/extractor"
	"umroh-scraper/internal/logging"
	"umroh-scraper/internal/types"
)

// maxRequestBody caps the size of JSON request bodies
const maxRequestBody = 10 << 20

// ScrapeRequest represents the request body of POST /scrape
type ScrapeRequest struct {
	Keywords          []string `json:"keywords"`
	ResultsPerKeyword int      `json:"results_per_keyword"`
	Export            bool     `json:"export"`
}

// CleanRequest represents the request body of POST /clean
type CleanRequest struct {
	Organizers []*types.Organizer `json:"organizers"`
}

// APIResponse represents the response from the API
type APIResponse struct {
	Success    bool               `json:"success"`
	Organizers []*types.Organizer `json:"organizers,omitempty"`
	ExportPath string             `json:"export_path,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Server holds the API server configuration
type Server struct {
	logger      *logrus.Logger
	config      *types.Config
	runTimeout  time.Duration
	newPipeline func(config *types.Config, logger types.Logger) *extractor.Pipeline
}

// NewServer creates a new API server
func NewServer(config *types.Config, logger *logrus.Logger) *Server {
	return &Server{
		logger:      logger,
		config:      config,
		runTimeout:  2 * time.Hour,
		newPipeline: extractor.NewPipeline,
	}
}

// setHeaders sets the JSON and CORS headers
func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// allowPost handles preflight requests and rejects anything but POST
func (s *Server) allowPost(w http.ResponseWriter, r *http.Request) bool {
	setHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// handleScrape runs the scraping pipeline and returns the cleaned organizers
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if !s.allowPost(w, r) {
		return
	}

	var req ScrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Each request works on its own copy of the configuration
	config := *s.config
	if len(req.Keywords) > 0 {
		config.SearchKeywords = nil
		for _, keyword := range req.Keywords {
			if keyword = strings.TrimSpace(keyword); keyword != "" {
				config.SearchKeywords = append(config.SearchKeywords, keyword)
			}
		}
	}
	if req.ResultsPerKeyword > 0 {
		config.ResultsPerKeyword = req.ResultsPerKeyword
	}
	if err := config.Validate(); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	runLogger := logging.WithRunID(s.logger)
	runLogger.Infof("API scrape request received for keywords: %v", config.SearchKeywords)

	ctx, cancel := context.WithTimeout(r.Context(), s.runTimeout)
	defer cancel()

	pipeline := s.newPipeline(&config, runLogger)
	defer pipeline.Close()

	organizers, runErr := pipeline.Collect(ctx, config.ResultsPerKeyword)
	if runErr != nil {
		runLogger.Errorf("Error in scraping process: %v", runErr)
		if len(organizers) == 0 {
			s.sendError(w, runErr.Error(), http.StatusInternalServerError)
			return
		}
		runLogger.Warnf("Returning %d organizers collected before the interruption", len(organizers))
	}

	// Partial results keep Success false and carry the interruption in Error
	response := APIResponse{
		Success:    runErr == nil,
		Organizers: organizers,
	}
	if runErr != nil {
		response.Error = runErr.Error()
	}

	if req.Export {
		path, err := pipeline.Export(organizers, "")
		if err != nil {
			s.sendError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		response.ExportPath = path
	}

	s.sendJSON(w, response, http.StatusOK)
}

// handleClean cleans and merges the posted organizers
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	if !s.allowPost(w, r) {
		return
	}

	var req CleanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for _, org := range req.Organizers {
		if org != nil {
			org.EnsureSets()
		}
	}

	cleaned := cleaner.NewCleaner(s.config, s.logger).CleanDataset(req.Organizers)

	s.sendJSON(w, APIResponse{Success: true, Organizers: cleaned}, http.StatusOK)
}

// sendJSON writes a JSON response with the given status code
func (s *Server) sendJSON(w http.ResponseWriter, response APIResponse, statusCode int) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	s.sendJSON(w, APIResponse{Success: false, Error: message}, statusCode)
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// Routes returns the API handler
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/scrape", s.handleScrape)
	mux.HandleFunc("/clean", s.handleClean)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the API server
func (s *Server) Start(port string) error {
	s.logger.Infof("Starting API server on port %s", port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  POST /scrape - Discover and scrape travel organizers")
	s.logger.Info("  POST /clean  - Clean and merge organizer records")
	s.logger.Info("  GET  /health - Health check")

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get port from environment variable, default to 8080
	serverPort := "8080"
	if envPort := os.Getenv("API_PORT"); envPort != "" {
		serverPort = envPort
	}

	logger, closeLog, err := logging.NewLogger(logging.Options{LogFile: os.Getenv("LOG_FILE")})
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	config, err := types.LoadConfig(os.Getenv("SCRAPER_CONFIG"))
	if err != nil {
		log.Fatal(fmt.Errorf("failed to load configuration: %w", err))
	}

	server := NewServer(config, logger)
	log.Fatal(server.Start(serverPort))
}
