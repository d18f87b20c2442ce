package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/astramesh/chalice/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const defaultSocialBaseURL = "https://api.twitter.com"

// Twitter's recent search endpoint only accepts max_results in [10, 100].
const (
	socialAPIMinResults = 10
	socialAPIMaxResults = 100
)

// SocialSource implements social media search via the X/Twitter recent
// search API. It is disabled process-wide when no bearer token is
// configured.
type SocialSource struct {
	bearerToken string
	baseURL     string
	client      *resty.Client
}

type socialSearchResponse struct {
	Data []socialPost `json:"data"`
	Meta struct {
		ResultCount int `json:"result_count"`
	} `json:"meta"`
}

type socialPost struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		LikeCount    int `json:"like_count"`
		ReplyCount   int `json:"reply_count"`
	} `json:"public_metrics"`
}

// NewSocialSource creates a new social media source
func NewSocialSource(bearerToken string) *SocialSource {
	return &SocialSource{
		bearerToken: bearerToken,
		baseURL:     defaultSocialBaseURL,
		client: resty.New().
			SetTimeout(10 * time.Second).
			SetHeader("User-Agent", "AstraMesh-Chalice/1.0"),
	}
}

func (s *SocialSource) Name() string {
	return models.SourceSocial
}

func (s *SocialSource) Enabled() bool {
	return s.bearerToken != ""
}

func (s *SocialSource) Fetch(ctx context.Context, query string, maxResults int) ([]models.ContentItem, error) {
	if !s.Enabled() {
		logrus.Debug("Social source disabled - missing bearer token")
		return nil, nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.bearerToken).
		SetQueryParams(map[string]string{
			"query":        query,
			"max_results":  strconv.Itoa(clampAPIResults(maxResults)),
			"tweet.fields": "created_at,author_id,public_metrics",
		}).
		Get(s.baseURL + "/2/tweets/search/recent")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("social search API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp socialSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse social search response: %w", err)
	}

	fetchedAt := time.Now()
	var items []models.ContentItem

	for _, post := range searchResp.Data {
		if len(items) >= maxResults {
			break
		}

		createdAt := fetchedAt
		if post.CreatedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, post.CreatedAt); err == nil {
				createdAt = parsed
			} else {
				logrus.Debugf("Failed to parse social post timestamp %q: %v", post.CreatedAt, err)
			}
		}

		items = append(items, models.ContentItem{
			Title:     fmt.Sprintf("Post by %s", post.AuthorID),
			Content:   post.Text,
			Source:    models.SourceSocial,
			URL:       fmt.Sprintf("https://twitter.com/i/status/%s", post.ID),
			Timestamp: createdAt,
			Metadata: map[string]any{
				"post_id":   post.ID,
				"author_id": post.AuthorID,
				"metrics": map[string]int{
					"retweets": post.PublicMetrics.RetweetCount,
					"likes":    post.PublicMetrics.LikeCount,
					"replies":  post.PublicMetrics.ReplyCount,
				},
			},
		})
	}

	logrus.Debugf("Social search returned %d items for query %q", len(items), query)
	return items, nil
}

func clampAPIResults(n int) int {
	if n < socialAPIMinResults {
		return socialAPIMinResults
	}
	if n > socialAPIMaxResults {
		return socialAPIMaxResults
	}
	return n
}
