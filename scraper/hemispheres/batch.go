package hemispheres

import (
	"hemispheres-scraper/config"
	"hemispheres-scraper/models"
	"hemispheres-scraper/utils"
)

// BatchOptions tunes one batch run. Region doubles as the taxonomy filter
// during discovery and the re-validation filter at batch entry.
type BatchOptions struct {
	MaxArticles int
	Region      string
	OnProgress  func(index, total int, url string)
}

// Orchestrator drives many article scrapes through one shared tab.
type Orchestrator struct {
	cfg     *config.Config
	scraper *Scraper
	crawler *ListingCrawler
}

func NewOrchestrator(cfg *config.Config, scraper *Scraper) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		scraper: scraper,
		crawler: NewListingCrawler(cfg, scraper),
	}
}

// ScrapeBatch discovers article URLs under listingURL and scrapes each one
// sequentially through a single tab, one result per URL in discovery order.
// A failed article never touches its neighbours; only discovery or session
// faults return an error.
func (o *Orchestrator) ScrapeBatch(listingURL string, opts BatchOptions) ([]models.BatchResult, error) {
	urls, _, err := o.crawler.GetArticleURLs(listingURL, opts.Region)
	if err != nil {
		return nil, err
	}

	urls = limitCandidates(urls, opts.MaxArticles)
	// URLs must pass validation at batch entry as well as at discovery.
	urls = filterCandidates(urls, opts.Region)

	if len(urls) == 0 {
		utils.Warn("No valid article URLs under %s", listingURL)
		return nil, nil
	}

	// One tab for the whole batch: tab setup is expensive and the article
	// count can be large.
	page, cancel, err := o.scraper.newTab()
	if err != nil {
		return nil, err
	}
	defer cancel()

	scrape := func(url string) (map[string]string, error) {
		utils.RandomDelay(o.cfg.MinDelay, o.cfg.MaxDelay)
		_, outputs, err := o.scraper.ScrapeAndSave(page, url)
		return outputs, err
	}

	return o.runBatch(urls, scrape, opts.OnProgress), nil
}

// limitCandidates truncates to the first max URLs in discovery order.
func limitCandidates(urls []string, max int) []string {
	if max > 0 && len(urls) > max {
		utils.Info("Limiting batch to first %d of %d articles", max, len(urls))
		return urls[:max]
	}
	return urls
}

func filterCandidates(urls []string, region string) []string {
	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if IsValidArticleURL(u, region) {
			valid = append(valid, u)
		}
	}
	return valid
}

// runBatch is the isolation loop: every URL gets exactly one BatchResult at
// its original index, and a scrape failure is converted to data rather than
// propagated.
func (o *Orchestrator) runBatch(urls []string, scrape func(string) (map[string]string, error), onProgress func(int, int, string)) []models.BatchResult {
	results := make([]models.BatchResult, 0, len(urls))
	failed := 0

	for i, url := range urls {
		if onProgress != nil {
			onProgress(i+1, len(urls), url)
		}

		outputs, err := scrape(url)
		if err != nil {
			utils.Error("Article failed: %s: %v", url, err)
			failed++
			results = append(results, models.BatchResult{
				URL:     url,
				Region:  DeriveSlug(url),
				Success: false,
				Error:   err.Error(),
			})
			continue
		}

		results = append(results, models.BatchResult{
			URL:     url,
			Region:  DeriveSlug(url),
			Success: true,
			Outputs: outputs,
		})
	}

	utils.Success("Articles scraped: %d | Failed: %d", len(results)-failed, failed)
	return results
}
