package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/sensordash/sensordash/internal/config"
	"github.com/sensordash/sensordash/internal/dashboard"
	"github.com/sensordash/sensordash/internal/version"
	"github.com/sensordash/sensordash/internal/webui"
)

// Server serves the web UI and the JSON API over the controller's state
type Server struct {
	controller *dashboard.Controller
	logger     zerolog.Logger
	cfg        config.ServerConfig
	logBuffer  *webui.LogBuffer
	startTime  time.Time
}

// NewServer creates a new dashboard server
func NewServer(controller *dashboard.Controller, cfg config.ServerConfig, logger zerolog.Logger) *Server {
	return &Server{
		controller: controller,
		logger:     logger,
		cfg:        cfg,
		startTime:  time.Now(),
	}
}

// SetLogBuffer sets the log buffer backing the UI log panel
func (s *Server) SetLogBuffer(lb *webui.LogBuffer) {
	s.logBuffer = lb
}

// Handler builds the route tree
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Web UI and form actions
	r.Get("/", s.handleDashboard)
	r.Post("/select", s.handleSelect)
	r.Post("/limit", s.handleLimit)
	r.Post("/refresh", s.handleRefresh)
	r.Post("/devices/reload", s.handleReloadDevices)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	// JSON API, CORS-wrapped so external dashboards can consume it
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(c.Handler)
		r.Get("/state", s.handleStateAPI)
		r.Get("/devices", s.handleDevicesAPI)
		r.Get("/logs", s.handleLogsAPI)
	})

	return r
}

// Start runs the HTTP server until it fails or the process exits
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info().
		Str("address", addr).
		Msg("Starting dashboard server")

	return srv.ListenAndServe()
}

// PageData holds all data for the dashboard template
type PageData struct {
	State         dashboard.State
	Logs          []webui.LogEntry
	Version       string
	Uptime        string
	RefreshMillis int64
}

// handleDashboard renders the main web interface
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		State:         s.controller.Snapshot(),
		Version:       version.GetVersion(),
		Uptime:        formatDuration(time.Since(s.startTime)),
		RefreshMillis: s.controller.Interval().Milliseconds(),
	}
	if s.logBuffer != nil {
		data.Logs = s.logBuffer.Recent(50)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.Templates.ExecuteTemplate(w, "dashboard", data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleSelect changes the selected device and reloads its data
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	device := strings.TrimSpace(r.FormValue("device"))
	s.controller.SelectDevice(r.Context(), device)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLimit applies a new row limit. Non-numeric input resolves to the
// minimum; out-of-range input is clamped by the controller.
func (s *Server) handleLimit(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue("limit")))
	if err != nil {
		n = config.MinLimit
	}
	s.controller.SetLimit(n)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleRefresh re-fetches data for the selected device
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.controller.Refresh(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReloadDevices re-runs the device-list load on user request
func (s *Server) handleReloadDevices(w http.ResponseWriter, r *http.Request) {
	s.logger.Info().Msg("Device list reload requested via UI")
	s.controller.LoadDevices(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleHealth returns service health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus returns a service summary
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	snap := s.controller.Snapshot()
	json.NewEncoder(w).Encode(map[string]interface{}{
		"time":          time.Now().UTC().Format(time.RFC3339),
		"uptime":        time.Since(s.startTime).String(),
		"version":       version.GetVersion(),
		"commit":        version.GetCommit(),
		"build_date":    version.GetBuildDate(),
		"device_count":  len(snap.Devices),
		"selected":      snap.Selected,
		"reading_count": len(snap.Readings),
	})
}

// handleStateAPI returns the full session state as JSON
func (s *Server) handleStateAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.controller.Snapshot())
}

// handleDevicesAPI returns the current device list
func (s *Server) handleDevicesAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	snap := s.controller.Snapshot()
	json.NewEncoder(w).Encode(map[string]interface{}{
		"devices":  snap.Devices,
		"count":    len(snap.Devices),
		"selected": snap.Selected,
	})
}

// handleLogsAPI returns recent log entries as JSON
func (s *Server) handleLogsAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var entries []webui.LogEntry
	if s.logBuffer != nil {
		entries = s.logBuffer.Recent(200)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	if d < time.Hour {
		return d.Round(time.Minute).String()
	}
	hours := int(d.Hours())
	if hours < 24 {
		return d.Round(time.Minute).String()
	}
	days := hours / 24
	hours = hours % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
