package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hemispheres-scraper/models"
	"hemispheres-scraper/utils"
)

// ArticleWriter persists one article in three formats under
// <dir>/<region>/<slug>.{json,html,md}. Region and slug are pure functions
// of the URL, computed by the caller; two URLs sharing both collide
// last-write-wins.
type ArticleWriter struct {
	dir string
}

func NewArticleWriter(dir string) *ArticleWriter {
	return &ArticleWriter{dir: dir}
}

// articleDocument is the persisted JSON shape.
type articleDocument struct {
	URL             string                  `json:"url"`
	Title           string                  `json:"title"`
	Subtitle        string                  `json:"subtitle,omitempty"`
	Date            string                  `json:"date,omitempty"`
	Author          string                  `json:"author,omitempty"`
	HeroImage       *models.ImageData       `json:"hero_image"`
	Sections        []models.ArticleSection `json:"sections"`
	RelatedArticles []models.RelatedArticle `json:"related_articles"`
	ScrapedAt       string                  `json:"scraped_at"`
}

// Save writes the article in every format and returns format -> path.
func (w *ArticleWriter) Save(article *models.Article, region, slug string) (map[string]string, error) {
	if slug == "" {
		slug = "article"
	}

	targetDir := w.dir
	if region != "" {
		targetDir = filepath.Join(w.dir, region)
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output dir: %w", err)
	}

	jsonPath := filepath.Join(targetDir, slug+".json")
	htmlPath := filepath.Join(targetDir, slug+".html")
	mdPath := filepath.Join(targetDir, slug+".md")

	doc := articleDocument{
		URL:             article.URL,
		Title:           article.Title,
		Subtitle:        article.Subtitle,
		Date:            article.Date,
		Author:          article.Author,
		HeroImage:       article.HeroImage,
		Sections:        article.Sections,
		RelatedArticles: article.RelatedArticles,
		ScrapedAt:       time.Now().Format(time.RFC3339),
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not encode article: %w", err)
	}
	if err := os.WriteFile(jsonPath, encoded, 0644); err != nil {
		return nil, fmt.Errorf("could not write json: %w", err)
	}

	if err := os.WriteFile(htmlPath, []byte(article.RawHTML), 0644); err != nil {
		return nil, fmt.Errorf("could not write html: %w", err)
	}

	if err := os.WriteFile(mdPath, []byte(Markdown(article)), 0644); err != nil {
		return nil, fmt.Errorf("could not write markdown: %w", err)
	}

	utils.Success("Saved %s → %s", slug, targetDir)
	return map[string]string{
		"json":     jsonPath,
		"html":     htmlPath,
		"markdown": mdPath,
	}, nil
}
