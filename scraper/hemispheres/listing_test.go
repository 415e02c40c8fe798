package hemispheres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemispheres-scraper/config"
	"hemispheres-scraper/models"
)

// fakePage simulates a listing page behind a reveal control. Each click
// advances to the next stage's link set; the control disappears after the
// last stage unless inert is set, and grow switches to an endless listing.
type fakePage struct {
	url      string
	stages   [][]string
	stage    int
	inert    bool
	grow     func(clicks int) []string
	navErr   error
	clicks   int
	extracts int
}

type fakeElement struct {
	page *fakePage
}

func (e *fakeElement) ScrollIntoView() error { return nil }

func (e *fakeElement) Click() error {
	e.page.clicks++
	if e.page.grow == nil && e.page.stage+1 < len(e.page.stages) {
		e.page.stage++
	}
	return nil
}

func (p *fakePage) Navigate(url string, timeout time.Duration) error {
	return p.navErr
}

func (p *fakePage) Evaluate(script string, out interface{}) error {
	switch v := out.(type) {
	case *[]string:
		p.extracts++
		if p.grow != nil {
			*v = p.grow(p.clicks)
		} else {
			*v = append([]string(nil), p.stages[p.stage]...)
		}
	case *bool:
		// Scripted scan fallback: the declarative locators already cover
		// every control these fixtures present.
		*v = false
	}
	return nil
}

func (p *fakePage) LocateByTextOrClass(locators []Locator) (Element, error) {
	if p.grow != nil || p.inert || p.stage+1 < len(p.stages) {
		return &fakeElement{page: p}, nil
	}
	return nil, nil
}

func (p *fakePage) WaitFixed(d time.Duration) {}

func (p *fakePage) WaitForSelector(selector string, timeout time.Duration) error { return nil }

func (p *fakePage) CurrentURL() (string, error) { return p.url, nil }

func (p *fakePage) RenderedHTML() (string, error) { return "", nil }

func testCrawler() *ListingCrawler {
	return NewListingCrawler(config.DefaultConfig(), nil)
}

// TestCrawlListingScenario: 4 links on first paint (3 valid, 1 on the
// things-to-do branch), one reveal adds a fifth valid link, then the
// control disappears.
func TestCrawlListingScenario(t *testing.T) {
	first := []string{
		"/en/us/hemispheres/places-to-go/africa/morocco/marrakesh-solo-travel.html",
		"https://www.united.com/en/us/hemispheres/places-to-go/africa/kenya/safari-guide.html",
		"/en/us/hemispheres/places-to-go/africa/egypt/cairo-eats.html#top",
		"/en/us/hemispheres/things-to-do/africa/hot-air-balloons.html",
	}
	page := &fakePage{
		url:    listingBase,
		stages: [][]string{first, append(first, "/en/us/hemispheres/places-to-go/africa/ghana/accra-nights.html")},
	}

	urls, state, err := testCrawler().crawlListing(page, listingBase, "africa")
	require.NoError(t, err)

	want := []string{
		"https://www.united.com/en/us/hemispheres/places-to-go/africa/morocco/marrakesh-solo-travel.html",
		"https://www.united.com/en/us/hemispheres/places-to-go/africa/kenya/safari-guide.html",
		"https://www.united.com/en/us/hemispheres/places-to-go/africa/egypt/cairo-eats.html",
		"https://www.united.com/en/us/hemispheres/places-to-go/africa/ghana/accra-nights.html",
	}
	assert.Equal(t, want, urls, "valid URLs in discovery order")

	require.NotNil(t, state)
	assert.Equal(t, listingBase, state.ListingURL)
	assert.Equal(t, 5, state.TotalFound)
	assert.Len(t, state.SkippedURLs, 1)
	assert.Equal(t, want, state.Remaining)
	assert.Len(t, state.Processed, 4)
	for _, u := range want {
		assert.Equal(t, models.StatusPending, state.Processed[u])
	}
}

// TestLoadAllArticlesStopsWithoutControl: no reveal control on the page at
// all means a single extraction pass.
func TestLoadAllArticlesStopsWithoutControl(t *testing.T) {
	page := &fakePage{
		url: listingBase,
		stages: [][]string{{
			"/en/us/hemispheres/places-to-go/africa/kenya/safari-guide.html",
		}},
	}

	urls, err := testCrawler().loadAllArticles(page, "africa")
	require.NoError(t, err)

	assert.Len(t, urls, 1)
	assert.Equal(t, 0, page.clicks)
	assert.Equal(t, 1, page.extracts)
}

// TestLoadAllArticlesInertControl: the control stays clickable but loads
// nothing new. That is the end of the listing, not an error.
func TestLoadAllArticlesInertControl(t *testing.T) {
	page := &fakePage{
		url: listingBase,
		stages: [][]string{{
			"/en/us/hemispheres/places-to-go/africa/kenya/safari-guide.html",
			"/en/us/hemispheres/places-to-go/africa/egypt/cairo-eats.html",
			"/en/us/hemispheres/places-to-go/africa/ghana/accra-nights.html",
		}},
		inert: true,
	}

	urls, err := testCrawler().loadAllArticles(page, "africa")
	require.NoError(t, err)

	assert.Len(t, urls, 3)
	assert.Equal(t, 2, page.clicks, "one productive-looking click plus the inert one")
}

// TestLoadAllArticlesTerminationBound: with N reveals before stagnation the
// loop runs at most N+1 rounds (at most 2N+1 extractions).
func TestLoadAllArticlesTerminationBound(t *testing.T) {
	link := func(i int) string {
		return fmt.Sprintf("/en/us/hemispheres/places-to-go/africa/kenya/article-%d.html", i)
	}
	page := &fakePage{
		url: listingBase,
		stages: [][]string{
			{link(0)},
			{link(0), link(1)},
			{link(0), link(1), link(2)},
		},
	}

	urls, err := testCrawler().loadAllArticles(page, "africa")
	require.NoError(t, err)

	assert.Len(t, urls, 3)
	assert.Equal(t, 2, page.clicks)
	assert.LessOrEqual(t, page.extracts, 2*2+1)
}

// TestLoadAllArticlesSafetyCeiling: a listing that never stops growing is
// cut off at exactly the attempt ceiling.
func TestLoadAllArticlesSafetyCeiling(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRevealAttempts = 5
	crawler := NewListingCrawler(cfg, nil)

	page := &fakePage{
		url: listingBase,
		grow: func(clicks int) []string {
			links := make([]string, clicks+2)
			for i := range links {
				links[i] = fmt.Sprintf("/en/us/hemispheres/places-to-go/africa/kenya/article-%d.html", i)
			}
			return links
		},
	}

	urls, err := crawler.loadAllArticles(page, "africa")
	require.NoError(t, err)

	assert.Equal(t, 5, page.clicks, "stops at the ceiling, not before or after")
	assert.NotEmpty(t, urls)
}

func TestCrawlListingNavigationFailure(t *testing.T) {
	page := &fakePage{url: listingBase, navErr: errors.New("net::ERR_TIMED_OUT")}

	urls, state, err := testCrawler().crawlListing(page, listingBase, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDiscoveryFailed)
	assert.Nil(t, urls, "no partial listing on navigation failure")
	assert.Nil(t, state)
}

func TestCrawlPlaces(t *testing.T) {
	indexURL := "https://www.united.com/en/us/hemispheres/places-to-go/index.html"
	page := &fakePage{
		url: indexURL,
		stages: [][]string{{
			"/en/us/hemispheres/places-to-go/africa/index.html",
			"/en/us/hemispheres/places-to-go/asia/index.html",
			"/en/us/hemispheres/places-to-go/index.html",
			"/en/us/hemispheres/places-to-go/africa/index.html",
			"/en/us/hemispheres/places-to-go/africa/morocco/marrakesh-solo-travel.html",
		}},
	}

	places, err := testCrawler().crawlPlaces(page, indexURL)
	require.NoError(t, err)

	require.Len(t, places, 2, "root index, duplicates and articles are dropped")
	assert.Equal(t, models.Place{
		Name: "africa",
		URL:  "https://www.united.com/en/us/hemispheres/places-to-go/africa/index.html",
	}, places[0])
	assert.Equal(t, "asia", places[1].Name)
}

func TestCrawlPlacesNavigationFailure(t *testing.T) {
	page := &fakePage{url: listingBase, navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	_, err := testCrawler().crawlPlaces(page, "https://www.united.com/en/us/hemispheres/places-to-go/index.html")
	assert.ErrorIs(t, err, ErrDiscoveryFailed)
}
