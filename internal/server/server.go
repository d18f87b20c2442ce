package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/astramesh/chalice/internal/aggregator"
	"github.com/astramesh/chalice/internal/config"
	"github.com/astramesh/chalice/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	serviceName = "AstraMesh QVic Reforge Chalice"
	version     = "1.0.0"
)

// Server is the HTTP boundary: thin adapters that validate input shape and
// serialize output around the aggregation service.
type Server struct {
	config     *config.Config
	aggregator *aggregator.Service
	router     *mux.Router
}

// NewServer creates the HTTP server boundary
func NewServer(cfg *config.Config, agg *aggregator.Service) *Server {
	s := &Server{
		config:     cfg,
		aggregator: agg,
		router:     mux.NewRouter(),
	}

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/aggregate", s.handleAggregate).Methods("POST")

	return s
}

// Handler returns the router wrapped with request logging and CORS.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return requestLogging(cors(s.router))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	indexPath := filepath.Join(s.config.StaticDir, "index.html")
	if _, err := os.Stat(indexPath); err == nil {
		http.ServeFile(w, r, indexPath)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fallbackPage))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)
	for name, enabled := range s.aggregator.Services() {
		if enabled {
			services[name] = "available"
		} else {
			services[name] = "unavailable"
		}
	}

	writeJSON(w, http.StatusOK, models.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  services,
		Version:   version,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Service:     serviceName,
		Status:      "running",
		Timestamp:   time.Now().Format(time.RFC3339),
		ActiveTasks: s.aggregator.ActiveTasks(),
		Services:    s.aggregator.Services(),
	})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req models.AggregationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := s.aggregator.Aggregate(r.Context(), req)
	if err != nil {
		logrus.Errorf("Error in content aggregation: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging tags every request with an ID and logs its outcome.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     recorder.status,
			"duration":   time.Since(start).String(),
		}).Info("Request completed")
	})
}

const fallbackPage = `<html>
    <head><title>AstraMesh QVic Reforge Chalice</title></head>
    <body>
        <h1>AstraMesh QVic Reforge Chalice</h1>
        <p>AI-powered knowledge aggregator is running!</p>
        <p>Health: <a href="/health">/health</a></p>
    </body>
</html>`
