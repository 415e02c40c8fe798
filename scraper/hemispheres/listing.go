package hemispheres

import (
	"fmt"
	"strings"

	"hemispheres-scraper/config"
	"hemispheres-scraper/models"
	"hemispheres-scraper/utils"
)

// ListingCrawler discovers article URLs from listing pages and place URLs
// from the places index.
type ListingCrawler struct {
	cfg     *config.Config
	scraper *Scraper
}

func NewListingCrawler(cfg *config.Config, scraper *Scraper) *ListingCrawler {
	return &ListingCrawler{cfg: cfg, scraper: scraper}
}

// revealLocators is the ordered waterfall of strategies for finding the
// "See more" control. Site redesigns get handled by appending entries.
var revealLocators = []Locator{
	{Tag: "button", Text: "see more"},
	{Selector: `button[class*="see-more"]`},
	{Selector: `[class*="see-more"]`},
	{Tag: "button", Text: "load more"},
	{Tag: "button", Text: "show more"},
	{Tag: "a", Text: "see more"},
}

// revealScanScript is the last-resort strategy: scan every button for
// matching visible text and click it in-page.
const revealScanScript = `(() => {
	const buttons = Array.from(document.querySelectorAll('button'));
	const btn = buttons.find(b =>
		b.textContent.toLowerCase().includes('see more') ||
		b.textContent.toLowerCase().includes('load more') ||
		b.textContent.toLowerCase().includes('show more')
	);
	if (btn && btn.offsetParent !== null) {
		btn.click();
		return true;
	}
	return false;
})()`

// GetArticleURLs navigates to listingURL, exhausts the reveal loop, and
// returns the valid article URLs in discovery order together with the full
// discovery state. Each call opens and tears down its own tab.
func (c *ListingCrawler) GetArticleURLs(listingURL, region string) ([]string, *models.ListingState, error) {
	page, cancel, err := c.scraper.newTab()
	if err != nil {
		return nil, nil, err
	}
	defer cancel()
	return c.crawlListing(page, listingURL, region)
}

func (c *ListingCrawler) crawlListing(page Page, listingURL, region string) ([]string, *models.ListingState, error) {
	utils.Info("Navigating to listing page: %s...", listingURL)
	if err := page.Navigate(listingURL, c.cfg.NavTimeout); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDiscoveryFailed, listingURL, err)
	}

	utils.Info("Waiting for page to load...")
	page.WaitFixed(c.cfg.ListingSettle)

	allURLs, err := c.loadAllArticles(page, region)
	if err != nil {
		return nil, nil, err
	}

	state := &models.ListingState{
		ListingURL: listingURL,
		TotalFound: len(allURLs),
		Processed:  make(map[string]string),
	}
	for _, u := range allURLs {
		if IsValidArticleURL(u, region) {
			state.ValidURLs = append(state.ValidURLs, u)
		} else {
			state.SkippedURLs = append(state.SkippedURLs, u)
		}
	}
	state.Remaining = append([]string(nil), state.ValidURLs...)
	for _, u := range state.ValidURLs {
		state.Processed[u] = models.StatusPending
	}

	utils.Info("Crawling complete: %d found, %d valid, %d skipped",
		state.TotalFound, len(state.ValidURLs), len(state.SkippedURLs))

	return state.ValidURLs, state, nil
}

// loadAllArticles clicks the reveal control until it disappears, goes inert,
// or the attempt ceiling is reached. The two-stage stop check matters: a
// still-present control that loads nothing new is the end of the listing,
// not an error.
func (c *ListingCrawler) loadAllArticles(page Page, region string) ([]string, error) {
	seen := make(map[string]bool)
	var ordered []string
	union := func(urls []string) {
		for _, u := range urls {
			if !seen[u] {
				seen[u] = true
				ordered = append(ordered, u)
			}
		}
	}

	attempts := 0
	for attempts < c.cfg.MaxRevealAttempts {
		current, err := c.extractArticleLinks(page, region)
		if err != nil {
			return nil, fmt.Errorf("link extraction failed: %w", err)
		}
		previous := len(ordered)
		union(current)
		utils.Info("  Found %d article links on page (total unique: %d)", len(current), len(ordered))

		if !c.clickSeeMore(page) {
			utils.Info("  No more reveal control found, stopping.")
			return ordered, nil
		}

		page.WaitFixed(c.cfg.RevealSettle)

		fresh, err := c.extractArticleLinks(page, region)
		if err != nil {
			return nil, fmt.Errorf("link extraction failed: %w", err)
		}
		if len(fresh) <= previous {
			utils.Info("  No new content loaded after click, stopping.")
			return ordered, nil
		}

		attempts++
	}

	utils.Warn("  Reached maximum reveal attempts (%d), stopping.", c.cfg.MaxRevealAttempts)
	return ordered, nil
}

// clickSeeMore works down the locator waterfall, then falls back to a
// scripted scan. Returns false only when every strategy came up empty —
// the listing's natural end.
func (c *ListingCrawler) clickSeeMore(page Page) bool {
	el, err := page.LocateByTextOrClass(revealLocators)
	if err == nil && el != nil {
		utils.Info("  Clicking reveal control...")
		if err := el.ScrollIntoView(); err == nil {
			page.WaitFixed(c.cfg.ScrollSettle)
			if err := el.Click(); err == nil {
				return true
			}
		}
	}

	var clicked bool
	if err := page.Evaluate(revealScanScript, &clicked); err != nil {
		utils.Warn("  Reveal scan failed: %v", err)
		return false
	}
	if clicked {
		utils.Info("  Clicking reveal control (scripted scan)...")
	}
	return clicked
}

func (c *ListingCrawler) extractArticleLinks(page Page, region string) ([]string, error) {
	base, err := page.CurrentURL()
	if err != nil {
		return nil, err
	}

	var hrefs []string
	if err := page.Evaluate(articleLinkScript(region), &hrefs); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	for _, href := range hrefs {
		normalized, err := NormalizeURL(href, base)
		if err != nil {
			continue
		}
		if !seen[normalized] {
			seen[normalized] = true
			links = append(links, normalized)
		}
	}
	return links, nil
}

func articleLinkScript(region string) string {
	selector := fmt.Sprintf(`a[href*="%s"], a[href*="%s"]`, listingRootMarker, alternateMarker)
	if region != "" {
		selector = fmt.Sprintf(`a[href*="%s%s/"], a[href*="%s"]`,
			listingRootMarker, strings.ToLower(region), alternateMarker)
	}
	return fmt.Sprintf(`(() => {
		const links = [];
		document.querySelectorAll(%q).forEach(a => {
			if (a.href) links.push(a.href);
		});
		return links;
	})()`, selector)
}

// GetPlaceURLs navigates to the places index and returns every place listing
// found, in discovery order. The index is fully rendered on load; there is
// no reveal loop here.
func (c *ListingCrawler) GetPlaceURLs(indexURL string) ([]models.Place, error) {
	page, cancel, err := c.scraper.newTab()
	if err != nil {
		return nil, err
	}
	defer cancel()
	return c.crawlPlaces(page, indexURL)
}

func (c *ListingCrawler) crawlPlaces(page Page, indexURL string) ([]models.Place, error) {
	utils.Info("Navigating to places index: %s...", indexURL)
	if err := page.Navigate(indexURL, c.cfg.NavTimeout); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDiscoveryFailed, indexURL, err)
	}
	page.WaitFixed(c.cfg.ListingSettle)

	base, err := page.CurrentURL()
	if err != nil {
		return nil, err
	}

	var hrefs []string
	if err := page.Evaluate(placeLinkScript, &hrefs); err != nil {
		return nil, fmt.Errorf("place extraction failed: %w", err)
	}

	seen := make(map[string]bool)
	var places []models.Place
	for _, href := range hrefs {
		normalized, err := NormalizeURL(href, base)
		if err != nil {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(normalized), "/index.html") {
			continue
		}
		slug := DeriveSlug(normalized)
		if slug == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		places = append(places, models.Place{Name: slug, URL: normalized})
	}

	utils.Success("Found %d places", len(places))
	return places, nil
}

const placeLinkScript = `(() => {
	const links = [];
	document.querySelectorAll('a[href*="/places-to-go/"][href*="index.html"]').forEach(a => {
		if (a.href) links.push(a.href);
	});
	return links;
})()`
