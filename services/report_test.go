package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemispheres-scraper/models"
)

func TestGenerateBatchReport(t *testing.T) {
	results := []models.BatchResult{
		{URL: "https://example.com/a.html", Region: "africa", Success: true},
		{URL: "https://example.com/b.html", Region: "africa", Success: false, Error: "timeout"},
		{URL: "https://example.com/c.html", Region: "asia", Success: true},
		{URL: "https://example.com/d.html", Success: true},
	}

	report := GenerateBatchReport("https://example.com/listing", results)

	assert.NotEqual(t, report.RunID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, map[string]int{"africa": 2, "asia": 1, "unknown": 1}, report.ByRegion)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "https://example.com/b.html", report.Failures[0].URL)
}

func TestExitCode(t *testing.T) {
	ok := models.BatchResult{Success: true}
	bad := models.BatchResult{Success: false, Error: "x"}

	tests := []struct {
		name    string
		results []models.BatchResult
		want    int
	}{
		{"full success", []models.BatchResult{ok, ok}, 0},
		{"partial success", []models.BatchResult{ok, bad}, 2},
		{"total failure", []models.BatchResult{bad, bad}, 1},
		{"nothing attempted", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := GenerateBatchReport("https://example.com/listing", tt.results)
			assert.Equal(t, tt.want, report.ExitCode())
		})
	}
}
