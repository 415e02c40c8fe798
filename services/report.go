package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"hemispheres-scraper/models"
)

// BatchReport summarizes one or more batch runs.
type BatchReport struct {
	RunID      uuid.UUID
	ListingURL string
	Total      int
	Succeeded  int
	Failed     int
	ByRegion   map[string]int
	Failures   []models.BatchResult
}

// GenerateBatchReport tallies the result sequence. Every report gets a fresh
// run ID, which is also the key the Postgres writer files the rows under.
func GenerateBatchReport(listingURL string, results []models.BatchResult) BatchReport {
	report := BatchReport{
		RunID:      uuid.New(),
		ListingURL: listingURL,
		Total:      len(results),
		ByRegion:   make(map[string]int),
	}

	for _, r := range results {
		region := r.Region
		if region == "" {
			region = "unknown"
		}
		report.ByRegion[region]++

		if r.Success {
			report.Succeeded++
		} else {
			report.Failed++
			report.Failures = append(report.Failures, r)
		}
	}

	return report
}

// ExitCode maps the batch outcome to the process exit code: 0 full success,
// 1 total failure or nothing scraped, 2 partial success.
func (r BatchReport) ExitCode() int {
	switch {
	case r.Total == 0:
		return 1
	case r.Succeeded == 0:
		return 1
	case r.Failed > 0:
		return 2
	default:
		return 0
	}
}

func PrintBatchReport(report BatchReport) {
	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────────────────────┐")
	fmt.Println("│                        Batch Summary                         │")
	fmt.Println("├───────────────────────────────┬──────────────────────────────┤")
	fmt.Printf("│ %-29s │ %-28s │\n", "Run ID", truncateText(report.RunID.String(), 28))
	fmt.Printf("│ %-29s │ %-28d │\n", "Articles Attempted", report.Total)
	fmt.Printf("│ %-29s │ %-28d │\n", "Succeeded", report.Succeeded)
	fmt.Printf("│ %-29s │ %-28d │\n", "Failed", report.Failed)
	fmt.Println("└───────────────────────────────┴──────────────────────────────┘")

	if len(report.ByRegion) > 0 {
		fmt.Println()
		fmt.Println("┌──────────────────────────────────────────────┬───────────────┐")
		fmt.Println("│ Articles per Region                          │ Count         │")
		fmt.Println("├──────────────────────────────────────────────┼───────────────┤")
		for _, region := range sortedRegions(report.ByRegion) {
			fmt.Printf("│ %-44s │ %-13d │\n", region, report.ByRegion[region])
		}
		fmt.Println("└──────────────────────────────────────────────┴───────────────┘")
	}

	if len(report.Failures) > 0 {
		fmt.Println()
		fmt.Println("Failed articles:")
		for _, f := range report.Failures {
			fmt.Printf("  - %s\n    %s\n", f.URL, truncateText(f.Error, 100))
		}
	}
}

func sortedRegions(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
