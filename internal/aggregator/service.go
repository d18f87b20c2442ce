package aggregator

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/astramesh/chalice/internal/models"
	"github.com/astramesh/chalice/internal/sources"
	"github.com/sirupsen/logrus"
)

// Summarizer produces an optional synopsis of aggregated content.
type Summarizer interface {
	Enabled() bool
	Summarize(ctx context.Context, items []models.ContentItem, query string) (string, error)
}

// Service coordinates concurrent source fetches, merging, sorting and
// summarization for one aggregation request. Source and summarizer handles
// are constructed once at startup and only read afterwards.
type Service struct {
	sources    []sources.Source
	byName     map[string]sources.Source
	summarizer Summarizer
	inFlight   atomic.Int64
}

type fetchOutcome struct {
	source string
	items  []models.ContentItem
	err    error
}

// NewService creates a new aggregation service
func NewService(srcs []sources.Source, summarizer Summarizer) *Service {
	byName := make(map[string]sources.Source, len(srcs))
	for _, src := range srcs {
		byName[src.Name()] = src
	}

	return &Service{
		sources:    srcs,
		byName:     byName,
		summarizer: summarizer,
	}
}

// Aggregate runs the requested fetches concurrently, merges and sorts the
// results newest-first, and optionally summarizes them. Individual fetch
// failures are logged and contribute zero items; the error return is
// reserved for failures that escape those safeguards.
func (s *Service) Aggregate(ctx context.Context, req models.AggregationRequest) (*models.AggregationResult, error) {
	start := time.Now()
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	req.ApplyDefaults()

	// Schedule only sources that exist and are enabled; duplicates in the
	// request are scheduled once. SourcesUsed records what was scheduled,
	// regardless of fetch outcome.
	var scheduled []sources.Source
	sourcesUsed := make([]string, 0, len(req.Sources))
	seen := make(map[string]bool)

	for _, tag := range req.Sources {
		if seen[tag] {
			continue
		}
		seen[tag] = true

		src, ok := s.byName[tag]
		if !ok {
			logrus.Warnf("Unknown source %q requested - skipping", tag)
			continue
		}
		if !src.Enabled() {
			logrus.Debugf("Source %q disabled - skipping", tag)
			continue
		}

		scheduled = append(scheduled, src)
		sourcesUsed = append(sourcesUsed, tag)
	}

	outcomes := make(chan fetchOutcome, len(scheduled))
	var wg sync.WaitGroup

	for _, src := range scheduled {
		wg.Add(1)
		go func(src sources.Source) {
			defer wg.Done()

			logrus.Debugf("Fetching up to %d items from %s for query %q", req.ResultLimit(), src.Name(), req.Query)
			items, err := src.Fetch(ctx, req.Query, req.ResultLimit())
			outcomes <- fetchOutcome{source: src.Name(), items: items, err: err}
		}(src)
	}

	// Join all scheduled fetches; one source failing never cancels the others
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	allItems := make([]models.ContentItem, 0)
	for outcome := range outcomes {
		if outcome.err != nil {
			logrus.Errorf("Error fetching from %s: %v", outcome.source, outcome.err)
			continue
		}
		allItems = append(allItems, outcome.items...)
	}

	// Newest first; ties keep concatenation order
	sort.SliceStable(allItems, func(i, j int) bool {
		return allItems[i].Timestamp.After(allItems[j].Timestamp)
	})

	var summaryText string
	if req.ShouldSummarize() && len(allItems) > 0 {
		text, err := s.summarizer.Summarize(ctx, allItems, req.Query)
		if err != nil {
			logrus.Errorf("Error generating summary: %v", err)
		} else {
			summaryText = text
		}
	}

	return &models.AggregationResult{
		Query:          req.Query,
		Items:          allItems,
		Summary:        summaryText,
		TotalItems:     len(allItems),
		SourcesUsed:    sourcesUsed,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

// ActiveTasks returns the number of aggregations currently in flight.
func (s *Service) ActiveTasks() int64 {
	return s.inFlight.Load()
}

// Services reports enablement of each collaborator for health and status
// reporting.
func (s *Service) Services() map[string]bool {
	services := make(map[string]bool, len(s.sources)+1)
	for _, src := range s.sources {
		services[src.Name()] = src.Enabled()
	}
	services["summarizer"] = s.summarizer.Enabled()
	return services
}
