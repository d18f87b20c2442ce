package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/astramesh/chalice/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultWebBaseURL = "https://api.duckduckgo.com"

// WebSource implements web search via the DuckDuckGo Instant Answer API.
// No API key is required.
type WebSource struct {
	baseURL string
	client  *resty.Client
}

type duckDuckGoResponse struct {
	Heading       string            `json:"Heading"`
	Abstract      string            `json:"Abstract"`
	AbstractURL   string            `json:"AbstractURL"`
	RelatedTopics []duckDuckGoTopic `json:"RelatedTopics"`
}

type duckDuckGoTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// NewWebSource creates a new web search source. Each outbound call carries
// the given timeout; on timeout the fetch fails without affecting other
// sources.
func NewWebSource(timeout time.Duration) *WebSource {
	return &WebSource{
		baseURL: defaultWebBaseURL,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "AstraMesh-Chalice/1.0"),
	}
}

func (w *WebSource) Name() string {
	return models.SourceWeb
}

func (w *WebSource) Enabled() bool {
	return true // DuckDuckGo API doesn't require authentication
}

func (w *WebSource) Fetch(ctx context.Context, query string, maxResults int) ([]models.ContentItem, error) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":             query,
			"format":        "json",
			"no_html":       "1",
			"skip_disambig": "1",
		}).
		Get(w.baseURL + "/")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("duckduckgo API returned status %d", resp.StatusCode())
	}

	var searchResp duckDuckGoResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse DuckDuckGo response: %w", err)
	}

	fetchedAt := time.Now()
	var items []models.ContentItem

	// Reserve a slot for the abstract so the cap never drops it
	topicCap := maxResults
	if searchResp.Abstract != "" && topicCap > 0 {
		topicCap--
	}

	for _, topic := range searchResp.RelatedTopics {
		// Nested topic groups come back without a Text field
		if topic.Text == "" {
			continue
		}
		if len(items) >= topicCap {
			break
		}

		items = append(items, models.ContentItem{
			Title:     titleFromURL(topic.FirstURL),
			Content:   topic.Text,
			Source:    models.SourceWeb,
			URL:       topic.FirstURL,
			Timestamp: fetchedAt,
			Metadata:  map[string]any{"search_engine": "duckduckgo"},
		})
	}

	if searchResp.Abstract != "" {
		heading := searchResp.Heading
		if heading == "" {
			heading = titleCase(query)
		}

		items = append(items, models.ContentItem{
			Title:     heading,
			Content:   searchResp.Abstract,
			Source:    models.SourceWeb,
			URL:       searchResp.AbstractURL,
			Timestamp: fetchedAt,
			Metadata:  map[string]any{"type": "abstract", "search_engine": "duckduckgo"},
		})
	}

	if len(items) > maxResults {
		items = items[:maxResults]
	}

	logrus.Debugf("Web search returned %d items for query %q", len(items), query)
	return items, nil
}

// titleFromURL derives a readable title from the last path segment of a
// DuckDuckGo topic URL, e.g. ".../Rust_(programming_language)".
func titleFromURL(rawURL string) string {
	segment := rawURL
	if idx := strings.LastIndex(rawURL, "/"); idx >= 0 {
		segment = rawURL[idx+1:]
	}
	segment = strings.ReplaceAll(segment, "-", " ")
	segment = strings.ReplaceAll(segment, "_", " ")
	return titleCase(segment)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
