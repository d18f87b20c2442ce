package models

import (
	"fmt"
	"strings"
	"time"
)

// Source tags for the configured providers.
const (
	SourceWeb    = "web"
	SourceSocial = "social"
)

// DefaultMaxResults is the per-source result cap applied when a request
// does not specify one.
const DefaultMaxResults = 10

// ContentItem is one normalized unit of aggregated content. Items are
// created by a source fetcher and never mutated afterwards.
type ContentItem struct {
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Source    string         `json:"source"` // "web" or "social"
	URL       string         `json:"url,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"` // provider-specific extras (engagement metrics, etc.)
}

// AggregationRequest is the input contract for POST /aggregate.
// MaxResults and Summarize are pointers so explicitly supplied values are
// distinguishable from absent fields, which take the documented defaults.
type AggregationRequest struct {
	Query      string   `json:"query"`
	Sources    []string `json:"sources,omitempty"`
	MaxResults *int     `json:"max_results,omitempty"`
	Summarize  *bool    `json:"summarize,omitempty"`
}

// Validate checks the request shape. A missing query is a boundary
// validation failure, not a core concern.
func (r *AggregationRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if r.MaxResults != nil && *r.MaxResults <= 0 {
		return fmt.Errorf("max_results must be a positive integer")
	}
	return nil
}

// ApplyDefaults fills in the documented defaults for absent fields.
func (r *AggregationRequest) ApplyDefaults() {
	if len(r.Sources) == 0 {
		r.Sources = []string{SourceWeb, SourceSocial}
	}
}

// ResultLimit returns the per-source result cap (default 10).
func (r *AggregationRequest) ResultLimit() int {
	if r.MaxResults == nil {
		return DefaultMaxResults
	}
	return *r.MaxResults
}

// ShouldSummarize reports whether a summary was requested (default true).
func (r *AggregationRequest) ShouldSummarize() bool {
	return r.Summarize == nil || *r.Summarize
}

// AggregationResult is the output contract for POST /aggregate. Items are
// sorted newest-first; SourcesUsed lists the sources that were actually
// scheduled, not the sources that succeeded.
type AggregationResult struct {
	Query          string        `json:"query"`
	Items          []ContentItem `json:"items"`
	Summary        string        `json:"summary,omitempty"`
	TotalItems     int           `json:"total_items"`
	SourcesUsed    []string      `json:"sources_used"`
	ProcessingTime float64       `json:"processing_time"` // seconds
}

// HealthStatus is the GET /health response.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"` // tag -> "available"/"unavailable"
	Version   string            `json:"version"`
}

// StatusResponse is the GET /status response.
type StatusResponse struct {
	Service     string          `json:"service"`
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	ActiveTasks int64           `json:"active_tasks"`
	Services    map[string]bool `json:"services"`
}
