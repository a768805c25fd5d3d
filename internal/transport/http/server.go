package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
	filterService "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/service"
	"github.com/reshetovitsme/keyword-reply-bot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes service status and per-chat trigger backups over HTTP.
type Server struct {
	cfg     *config.Config
	filters *filterService.Service
	logger  *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, filters *filterService.Service) *Server {
	return &Server{
		cfg:     cfg,
		filters: filters,
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Trigger backup endpoints
	mux.HandleFunc("GET /export/{chatID}", s.handleExport)
	mux.HandleFunc("GET /export/{chatID}/rss", s.handleExportFeed)

	// Service stats
	mux.HandleFunc("GET /stats", s.handleStats)

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	// Root endpoint with instructions
	mux.HandleFunc("GET /", s.handleRoot)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	chatID, ok := s.chatID(w, r)
	if !ok {
		return
	}

	keywords, err := s.filters.List(chatID)
	if err != nil {
		s.logger.Error("Error exporting triggers", "chat_id", chatID, "error", err)
		http.Error(w, "Failed to export triggers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"chat_id":  chatID,
		"keywords": keywords,
	})
}

// handleExportFeed renders the backup as RSS so trigger changes can be
// followed from a feed reader.
func (s *Server) handleExportFeed(w http.ResponseWriter, r *http.Request) {
	chatID, ok := s.chatID(w, r)
	if !ok {
		return
	}

	keywords, err := s.filters.List(chatID)
	if err != nil {
		s.logger.Error("Error exporting triggers", "chat_id", chatID, "error", err)
		http.Error(w, "Failed to export triggers", http.StatusInternalServerError)
		return
	}

	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Triggers for chat %d", chatID),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/export/%d/rss", baseURL, chatID)},
		Description: fmt.Sprintf("Registered auto-responder triggers for chat %d", chatID),
		Created:     time.Now(),
	}
	for _, keyword := range keywords {
		feed.Items = append(feed.Items, &feeds.Item{
			Title: keyword,
			Link:  &feeds.Link{Href: fmt.Sprintf("%s/export/%d", baseURL, chatID)},
			Id:    fmt.Sprintf("%d-%s", chatID, keyword),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.filters.Stats()
	if err != nil {
		s.logger.Error("Error collecting stats", "error", err)
		http.Error(w, "Failed to collect stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(stats))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Keyword Reply Bot</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Keyword Reply Bot</h1>
    <div class="info">
        <p>Per-chat keyword auto-responder for Telegram.</p>
        <p>Backup a chat's triggers: <code>/export/{chatID}</code> (or <code>/export/{chatID}/rss</code>)</p>
        <p>Service totals: <code>/stats</code></p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (s *Server) chatID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(r.PathValue("chatID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return 0, false
	}
	return chatID, true
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
