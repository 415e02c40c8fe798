package hemispheres

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"hemispheres-scraper/config"
	"hemispheres-scraper/models"
	"hemispheres-scraper/storage"
	"hemispheres-scraper/utils"
)

// Scraper owns the browser allocator for the whole run. Individual
// operations open tabs from it; whoever opened a tab owns it until its
// cancel runs.
type Scraper struct {
	cfg         *config.Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
	writer      *storage.ArticleWriter
}

func NewScraper(cfg *config.Config) (*Scraper, error) {
	utils.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		utils.StealthOpts(cfg.Headless)...,
	)
	utils.Success("Browser ready")
	return &Scraper{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		writer:      storage.NewArticleWriter(cfg.OutputDir),
	}, nil
}

func (s *Scraper) Close() {
	utils.Info("Closing browser...")
	s.allocCancel()
}

// newTab opens a fresh tab and spins up the browser if needed, so session
// failures surface here rather than on the first navigation. Callers must
// run the returned cancel on every exit path.
func (s *Scraper) newTab() (Page, context.CancelFunc, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.allocCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	return newBrowserPage(tabCtx), tabCancel, nil
}

// ScrapeURL scrapes and persists a single article in its own tab.
func (s *Scraper) ScrapeURL(url string) (*models.Article, map[string]string, error) {
	page, cancel, err := s.newTab()
	if err != nil {
		return nil, nil, err
	}
	defer cancel()
	return s.ScrapeAndSave(page, url)
}

// ScrapeAndSave extracts one article through the given page and writes it
// out in every format. Returns the article plus format -> path.
func (s *Scraper) ScrapeAndSave(page Page, url string) (*models.Article, map[string]string, error) {
	article, err := s.scrapeArticle(page, url)
	if err != nil {
		return nil, nil, err
	}

	outputs, err := s.writer.Save(article, DeriveSlug(url), SlugFromURL(url))
	if err != nil {
		return nil, nil, err
	}
	return article, outputs, nil
}

func (s *Scraper) scrapeArticle(page Page, url string) (*models.Article, error) {
	utils.Info("Navigating to %s...", url)
	if err := page.Navigate(url, s.cfg.NavTimeout); err != nil {
		return nil, fmt.Errorf("navigation failed for %s: %w", url, err)
	}

	if actual, err := page.CurrentURL(); err == nil && actual != url {
		utils.Info("Redirected to %s", actual)
	}

	// The article body is rendered client-side; networkidle never fires
	// reliably with analytics running, so settle on a fixed delay plus a
	// selector wait.
	page.WaitFixed(s.cfg.RenderSettle)

	// Scroll down in steps to trigger lazy-loaded images, then back up.
	for i := 0; i < 5; i++ {
		script := fmt.Sprintf(`window.scrollTo(0, document.body.scrollHeight * %d / 5)`, i)
		if err := page.Evaluate(script, nil); err != nil {
			return nil, fmt.Errorf("scroll failed: %w", err)
		}
		page.WaitFixed(s.cfg.LazyScrollGap)
	}
	if err := page.Evaluate(`window.scrollTo(0, 0)`, nil); err != nil {
		return nil, fmt.Errorf("scroll failed: %w", err)
	}
	page.WaitFixed(s.cfg.LazyScrollGap)

	if err := page.WaitForSelector("h1", s.cfg.SelectorTimeout); err != nil {
		utils.Warn("No h1 heading appeared, continuing anyway...")
	}

	utils.Info("Extracting content...")

	rawHTML, err := page.RenderedHTML()
	if err != nil {
		return nil, fmt.Errorf("could not capture page html: %w", err)
	}

	var data extractedArticle
	if err := page.Evaluate(articleExtractionScript, &data); err != nil {
		return nil, fmt.Errorf("content extraction failed: %w", err)
	}

	// A blank result usually means the page uses none of the known section
	// classes; re-extract generically from the captured document.
	if data.Title == "" && len(data.Sections) == 0 {
		utils.Warn("In-page extraction found nothing, falling back to document parse")
		if fallback, ferr := parseArticleHTML(rawHTML); ferr == nil {
			data = *fallback
		}
	}

	article := buildArticle(url, &data, rawHTML)
	utils.Success("Extracted %d sections, %d images", len(article.Sections), countImages(article))
	return article, nil
}

// extractedArticle mirrors the JSON object returned by the in-page
// extraction script.
type extractedArticle struct {
	Title     string             `json:"title"`
	Subtitle  string             `json:"subtitle"`
	Date      string             `json:"date"`
	Author    string             `json:"author"`
	HeroImage *extractedImage    `json:"heroImage"`
	Sections  []extractedSection `json:"sections"`
	Related   []extractedRelated `json:"relatedArticles"`
}

type extractedImage struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type extractedSection struct {
	Heading      string           `json:"heading"`
	HeadingLevel int              `json:"headingLevel"`
	Content      string           `json:"content"`
	Images       []extractedImage `json:"images"`
}

type extractedRelated struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func buildArticle(url string, data *extractedArticle, rawHTML string) *models.Article {
	article := &models.Article{
		URL:      url,
		Title:    strings.TrimSpace(data.Title),
		Subtitle: strings.TrimSpace(data.Subtitle),
		Date:     strings.TrimSpace(data.Date),
		Author:   strings.TrimSpace(data.Author),
		RawHTML:  rawHTML,
	}
	if article.Title == "" {
		article.Title = "Untitled"
	}

	if data.HeroImage != nil && data.HeroImage.Src != "" {
		article.HeroImage = &models.ImageData{
			Src:     data.HeroImage.Src,
			Alt:     data.HeroImage.Alt,
			Caption: data.HeroImage.Caption,
		}
	}

	for _, sec := range data.Sections {
		level := sec.HeadingLevel
		if level < 2 || level > 6 {
			level = 2
		}
		section := models.ArticleSection{
			Heading:      strings.TrimSpace(sec.Heading),
			HeadingLevel: level,
			Content:      strings.TrimSpace(sec.Content),
		}
		for _, img := range sec.Images {
			section.Images = append(section.Images, models.ImageData{
				Src:     img.Src,
				Alt:     img.Alt,
				Caption: img.Caption,
			})
		}
		article.Sections = append(article.Sections, section)
	}

	for _, rel := range data.Related {
		article.RelatedArticles = append(article.RelatedArticles, models.RelatedArticle{
			Title: rel.Title,
			URL:   rel.URL,
		})
	}

	return article
}

func countImages(article *models.Article) int {
	n := 0
	for _, sec := range article.Sections {
		n += len(sec.Images)
	}
	return n
}

// articleExtractionScript pulls the article apart inside the page. The
// hemi-* classes are the magazine's own component names; the generic
// heading walk near the end covers templates that dropped them.
const articleExtractionScript = `(() => {
	const data = {
		title: '',
		subtitle: '',
		date: '',
		author: '',
		heroImage: null,
		sections: [],
		relatedArticles: []
	};

	const titleEl = document.querySelector('.hemi-3pd-article-intro__title');
	if (titleEl) {
		data.title = titleEl.textContent.trim();
	} else {
		const h1 = document.querySelector('h1');
		if (h1) data.title = h1.textContent.trim();
	}

	const subtitleEl = document.querySelector('.heroBasic-subtitle-section');
	if (subtitleEl) data.subtitle = subtitleEl.textContent.trim();

	const dateEl = document.querySelector('.hemi-article-date');
	if (dateEl) data.date = dateEl.textContent.trim();

	const authorEl = document.querySelector('.hemi-article-author-name');
	if (authorEl) data.author = authorEl.textContent.trim();

	const heroImg = document.querySelector('.hemi-3pd-article-intro img') ||
		document.querySelector('[class*="hero"] img');
	if (heroImg && heroImg.src) {
		data.heroImage = {
			src: heroImg.src,
			alt: heroImg.alt || '',
			caption: heroImg.closest('figure')?.querySelector('figcaption')?.textContent?.trim() || ''
		};
	}

	const sections = [];

	const introEl = document.querySelector('.hemi-3pd-article-intro__paragraph');
	if (introEl) {
		sections.push({
			heading: null,
			headingLevel: 2,
			content: introEl.textContent.trim(),
			images: []
		});
	}

	document.querySelectorAll('.hemi-article-section').forEach(sectionEl => {
		const section = { heading: null, headingLevel: 2, content: '', images: [] };

		const sectionTitle = sectionEl.querySelector('.hemi-article-section-title');
		if (sectionTitle) section.heading = sectionTitle.textContent.trim();

		sectionEl.querySelectorAll('p').forEach(p => {
			const text = p.textContent.trim();
			if (text && text !== section.heading) {
				section.content += text + '\n\n';
			}
		});

		sectionEl.querySelectorAll('img').forEach(img => {
			if (img.src) {
				section.images.push({
					src: img.src,
					alt: img.alt || '',
					caption: img.closest('figure')?.querySelector('figcaption')?.textContent?.trim() || ''
				});
			}
		});

		if (section.content || section.images.length > 0) {
			sections.push(section);
		}
	});

	if (sections.length === 0 || (sections.length === 1 && !sections[0].heading)) {
		document.querySelectorAll('h2, h3').forEach(heading => {
			const text = heading.textContent.trim();
			if (!text || text.length <= 10 || text.includes('Menu') || text.includes('Search')) {
				return;
			}
			const section = {
				heading: text,
				headingLevel: parseInt(heading.tagName[1]),
				content: '',
				images: []
			};

			let nextEl = heading.parentElement?.nextElementSibling || heading.nextElementSibling;
			let safety = 0;
			while (nextEl && safety < 50) {
				safety++;
				if (nextEl.tagName === 'P') {
					section.content += nextEl.textContent.trim() + '\n\n';
				}
				if (nextEl.querySelectorAll) {
					nextEl.querySelectorAll('img').forEach(img => {
						if (img.src) {
							section.images.push({ src: img.src, alt: img.alt || '', caption: '' });
						}
					});
				}
				nextEl = nextEl.nextElementSibling;
			}

			if (section.content) sections.push(section);
		});
	}

	data.sections = sections;

	const relatedSection = document.querySelector('[class*="DynamicRecommendation"]');
	if (relatedSection) {
		relatedSection.querySelectorAll('a').forEach(link => {
			const title = link.textContent.trim();
			if (title && title.length > 5 && link.href) {
				data.relatedArticles.push({ title: title, url: link.href });
			}
		});
	}

	return data;
})()`
