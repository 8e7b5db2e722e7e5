package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/startrend/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		BatchID:        "b-1",
		Query:          "language:Go stars:>=100",
		EffectiveStart: "2026-10-09",
		EffectiveEnd:   "2026-10-16",
		Results: []models.EnrichedResult{
			{
				Repository:     models.Repository{FullName: "a/a", Language: "Go", StarCount: 900},
				IncreasedStars: 10,
				Status:         models.StatusComplete,
			},
			{
				Repository: models.Repository{FullName: "b/b", StarCount: 800},
				Status:     models.StatusRateLimited,
				Degraded:   true,
			},
		},
		Stats: models.BatchStats{Candidates: 3, Fetched: 2, Skipped: 1, Degraded: 1, Filtered: 1},
	}
}

func TestQuietFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&QuietFormatter{}).Format(sampleResponse(), &buf))
	assert.Equal(t, "a/a\t10\nb/b\t0?\n", buf.String())
}

func TestQuietFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&QuietFormatter{}).Format(&models.SearchResponse{}, &buf))
	assert.Empty(t, buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{Indent: true}).Format(sampleResponse(), &buf))

	var decoded models.SearchResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "b-1", decoded.BatchID)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "a/a", decoded.Results[0].FullName)
	assert.True(t, decoded.Results[1].Degraded)
	assert.Contains(t, buf.String(), `"increased_stars": 10`)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(sampleResponse(), &buf))
	out := buf.String()

	assert.Contains(t, out, "Trending 2026-10-09 .. 2026-10-16")
	assert.Contains(t, out, "a/a")
	assert.Contains(t, out, "+10")
	assert.Contains(t, out, "+0*")
	assert.Contains(t, out, "rate limited")
	assert.Contains(t, out, "3 candidates, 2 fetched, 0 from cache, 1 below threshold")
	assert.Contains(t, out, "1 repositories could not be counted")
	assert.NotContains(t, out, "\x1b[", "colors disabled")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("a/a")), bytes.Index(buf.Bytes(), []byte("b/b")))
}

func TestTableFormatter_Colors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{Colors: true}).Format(sampleResponse(), &buf))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestTableFormatter_NoResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&models.SearchResponse{EffectiveStart: "2026-10-01", EffectiveEnd: "2026-10-02"}, &buf))
	assert.Contains(t, buf.String(), "No repositories matched.")
}

func TestParseFormat(t *testing.T) {
	t.Setenv("STARTREND_FORMAT", "")

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" quiet ", FormatQuiet, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultFormat_FromEnv(t *testing.T) {
	t.Setenv("STARTREND_FORMAT", "json")
	assert.Equal(t, FormatJSON, DefaultFormat())

	t.Setenv("STARTREND_FORMAT", "bogus")
	assert.Equal(t, FormatTable, DefaultFormat())
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON, false))
	assert.IsType(t, &QuietFormatter{}, NewFormatter(FormatQuiet, false))
	assert.IsType(t, &TableFormatter{}, NewFormatter(FormatTable, true))
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, ResolveColors(ColorAlways))
	assert.False(t, ResolveColors(ColorAuto))
	assert.False(t, ResolveColors(ColorNever))

	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}
