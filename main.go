package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"hemispheres-scraper/config"
	"hemispheres-scraper/models"
	"hemispheres-scraper/scraper/hemispheres"
	"hemispheres-scraper/services"
	"hemispheres-scraper/storage"
	"hemispheres-scraper/utils"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.DefaultConfig()

	fileCfg, err := config.LoadFile(getEnv("HEMISPHERES_CONFIG", "hemispheres.yaml"))
	if err != nil {
		utils.Error("Bad config file: %v", err)
		return 1
	}
	cfg.Apply(fileCfg)

	singleURL := flag.String("url", getEnv("HEMISPHERES_URL", ""), "scrape a single article URL")
	listingURL := flag.String("listing-url", "", "scrape every article under a listing page")
	batchMode := flag.Bool("batch", false, "batch mode over the places index")
	maxArticles := flag.Int("max-articles", 0, "limit each batch to the first N articles (0 = no limit)")
	outputDir := flag.String("output", cfg.OutputDir, "output directory for scraped files")
	headless := flag.Bool("headless", cfg.Headless, "run the browser without a visible window")
	allPlaces := flag.Bool("all-places", false, "scrape every place listed on the places index")
	placeNames := flag.String("places", "", "comma-separated place names to scrape (e.g. africa,asia)")
	flag.Parse()

	cfg.OutputDir = *outputDir
	cfg.Headless = *headless

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupted
		utils.Warn("Interrupted.")
		os.Exit(130)
	}()

	utils.Section("Hemispheres Article Scraper")
	utils.Info("Output directory: %s | browser: %s", cfg.OutputDir, browserMode(cfg.Headless))

	scraper, err := hemispheres.NewScraper(cfg)
	if err != nil {
		utils.Error("Could not start scraper: %v", err)
		return 1
	}
	defer scraper.Close()

	// Mode precedence: single URL, then explicit listing, then the places
	// index (all or a named subset).
	switch {
	case *singleURL != "":
		return runSingle(cfg, scraper, *singleURL)
	case *listingURL != "":
		return runListing(cfg, scraper, *listingURL, *maxArticles)
	case *batchMode || *allPlaces:
		return runPlaces(cfg, scraper, nil, *maxArticles)
	case *placeNames != "":
		return runPlaces(cfg, scraper, parsePlaces(*placeNames), *maxArticles)
	default:
		return runPlaces(cfg, scraper, nil, *maxArticles)
	}
}

func runSingle(cfg *config.Config, scraper *hemispheres.Scraper, url string) int {
	var article *models.Article
	var outputs map[string]string

	// Retries live out here; discovery and batch runs never retry.
	err := utils.Retry(cfg.MaxRetries, func() error {
		var scrapeErr error
		article, outputs, scrapeErr = scraper.ScrapeURL(url)
		return scrapeErr
	})
	if err != nil {
		utils.Error("Scrape failed: %v", err)
		return 1
	}

	printArticleSummary(article, outputs)
	return 0
}

func runListing(cfg *config.Config, scraper *hemispheres.Scraper, listingURL string, maxArticles int) int {
	orchestrator := hemispheres.NewOrchestrator(cfg, scraper)

	results, err := orchestrator.ScrapeBatch(listingURL, hemispheres.BatchOptions{
		MaxArticles: maxArticles,
		OnProgress:  utils.Item,
	})
	if err != nil {
		utils.Error("Batch failed: %v", err)
		return 1
	}

	report := services.GenerateBatchReport(listingURL, results)
	services.PrintBatchReport(report)
	persistResults(cfg, report, listingURL, results)
	return report.ExitCode()
}

func runPlaces(cfg *config.Config, scraper *hemispheres.Scraper, names []string, maxArticles int) int {
	crawler := hemispheres.NewListingCrawler(cfg, scraper)

	places, err := crawler.GetPlaceURLs(cfg.PlacesIndexURL)
	if err != nil {
		utils.Error("Could not list places: %v", err)
		return 1
	}
	places = filterPlaces(places, names)
	if len(places) == 0 {
		utils.Error("No places found")
		return 1
	}

	orchestrator := hemispheres.NewOrchestrator(cfg, scraper)

	var allResults []models.BatchResult
	failedBatches := 0
	for _, place := range places {
		utils.Section(fmt.Sprintf("Place: %s", place.Name))

		results, err := orchestrator.ScrapeBatch(place.URL, hemispheres.BatchOptions{
			MaxArticles: maxArticles,
			Region:      place.Name,
			OnProgress:  utils.Item,
		})
		if err != nil {
			utils.Error("Place %s failed: %v", place.Name, err)
			failedBatches++
			continue
		}
		allResults = append(allResults, results...)
	}

	report := services.GenerateBatchReport(cfg.PlacesIndexURL, allResults)
	services.PrintBatchReport(report)
	persistResults(cfg, report, cfg.PlacesIndexURL, allResults)

	code := report.ExitCode()
	if failedBatches > 0 && code == 0 {
		code = 2
	}
	return code
}

// persistResults writes the outcome rows to Postgres when configured. A
// storage failure after a finished run is reported but does not change the
// exit code.
func persistResults(cfg *config.Config, report services.BatchReport, listingURL string, results []models.BatchResult) {
	if !cfg.DBEnabled || len(results) == 0 {
		return
	}

	writer, err := storage.NewPostgresWriter(cfg)
	if err != nil {
		utils.Warn("Skipping Postgres persistence: %v", err)
		return
	}
	defer writer.Close()

	if err := writer.EnsureSchema(); err != nil {
		utils.Warn("Skipping Postgres persistence: %v", err)
		return
	}
	if err := writer.WriteBatch(report.RunID, listingURL, results); err != nil {
		utils.Warn("Failed to save results to Postgres: %v", err)
		return
	}
	utils.Success("Saved %d results to Postgres (run %s)", len(results), report.RunID)
}

func parsePlaces(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func filterPlaces(places []models.Place, names []string) []models.Place {
	if len(names) == 0 {
		return places
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[strings.ToLower(n)] = true
	}
	var filtered []models.Place
	for _, p := range places {
		if keep[strings.ToLower(p.Name)] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func browserMode(headless bool) string {
	if headless {
		return "headless"
	}
	return "headed (visible)"
}

func printArticleSummary(article *models.Article, outputs map[string]string) {
	images := 0
	for _, s := range article.Sections {
		images += len(s.Images)
	}

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║               SCRAPE COMPLETE                ║")
	fmt.Println("╚══════════════════════════════════════════════╝")
	fmt.Printf("Title: %s\n", article.Title)
	if article.Subtitle != "" {
		fmt.Printf("Subtitle: %s\n", article.Subtitle)
	}
	if article.Date != "" {
		fmt.Printf("Date: %s\n", article.Date)
	}
	if article.Author != "" {
		fmt.Printf("Author: %s\n", article.Author)
	}
	fmt.Printf("Sections: %d | Images: %d\n", len(article.Sections), images)
	fmt.Println("Output files:")
	for format, path := range outputs {
		fmt.Printf("  - %s: %s\n", format, path)
	}
	fmt.Println()
}
