package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestAggregationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request AggregationRequest
		wantErr bool
	}{
		{
			name:    "Valid request",
			request: AggregationRequest{Query: "rust programming"},
			wantErr: false,
		},
		{
			name:    "Missing query",
			request: AggregationRequest{Sources: []string{"web"}},
			wantErr: true,
		},
		{
			name:    "Whitespace query",
			request: AggregationRequest{Query: "   "},
			wantErr: true,
		},
		{
			name:    "Negative max_results",
			request: AggregationRequest{Query: "rust", MaxResults: intPtr(-1)},
			wantErr: true,
		},
		{
			name:    "Zero max_results",
			request: AggregationRequest{Query: "rust", MaxResults: intPtr(0)},
			wantErr: true,
		},
		{
			name:    "Absent max_results",
			request: AggregationRequest{Query: "rust"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAggregationRequest_ApplyDefaults(t *testing.T) {
	req := AggregationRequest{Query: "test"}
	req.ApplyDefaults()

	assert.Equal(t, []string{SourceWeb, SourceSocial}, req.Sources)
	assert.Equal(t, DefaultMaxResults, req.ResultLimit())
	assert.True(t, req.ShouldSummarize())
}

func TestAggregationRequest_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	req := AggregationRequest{
		Query:      "test",
		Sources:    []string{SourceWeb},
		MaxResults: intPtr(5),
		Summarize:  boolPtr(false),
	}
	req.ApplyDefaults()

	assert.Equal(t, []string{SourceWeb}, req.Sources)
	assert.Equal(t, 5, req.ResultLimit())
	assert.False(t, req.ShouldSummarize())
}

func TestAggregationRequest_RoundTrip(t *testing.T) {
	original := AggregationRequest{
		Query:      "test query",
		Sources:    []string{SourceWeb, SourceSocial},
		MaxResults: intPtr(5),
		Summarize:  boolPtr(false),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded AggregationRequest
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.Query, decoded.Query)
	assert.Equal(t, original.Sources, decoded.Sources)
	require.NotNil(t, decoded.MaxResults)
	assert.Equal(t, 5, *decoded.MaxResults)
	require.NotNil(t, decoded.Summarize)
	assert.False(t, *decoded.Summarize)
}

func TestAggregationRequest_ExplicitZeroMaxResultsRejected(t *testing.T) {
	var req AggregationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"query":"rust","max_results":0}`), &req))

	// An explicit zero must be rejected, not silently replaced by the default
	require.NotNil(t, req.MaxResults)
	assert.Error(t, req.Validate())
}

func TestAggregationRequest_SummarizeAbsentDefaultsTrue(t *testing.T) {
	var req AggregationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"query":"test"}`), &req))

	assert.Nil(t, req.Summarize)
	assert.True(t, req.ShouldSummarize())
}

func TestAggregationResult_SummaryOmittedWhenAbsent(t *testing.T) {
	result := AggregationResult{
		Query:       "test",
		Items:       []ContentItem{},
		SourcesUsed: []string{},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"summary"`)
	assert.Contains(t, string(data), `"items":[]`)
	assert.Contains(t, string(data), `"sources_used":[]`)
}
