package storage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hemispheres-scraper/models"
)

func sampleArticle() *models.Article {
	return &models.Article{
		URL:      "https://www.united.com/en/us/hemispheres/places-to-go/africa/morocco/marrakesh-solo-travel.html",
		Title:    "Marrakesh Solo Travel",
		Subtitle: "A guide to going alone",
		Date:     "January 2026",
		Author:   "A. Traveler",
		HeroImage: &models.ImageData{
			Src:     "https://img.example.com/hero.jpg",
			Alt:     "Rooftops",
			Caption: "Sunset over the medina",
		},
		Sections: []models.ArticleSection{
			{
				Heading:      "Where to wander first",
				HeadingLevel: 2,
				Content:      "Start in the medina.",
				Images: []models.ImageData{
					{Src: "https://img.example.com/medina.jpg", Alt: "Medina"},
				},
			},
			{HeadingLevel: 2, Content: "An intro paragraph without a heading."},
		},
	}
}

func TestMarkdownLayout(t *testing.T) {
	md := Markdown(sampleArticle())

	assert.True(t, strings.HasPrefix(md, "# Marrakesh Solo Travel\n\n"))
	assert.Contains(t, md, "*A guide to going alone*")
	assert.Contains(t, md, "**Date:** January 2026")
	assert.Contains(t, md, "**Author:** A. Traveler")
	assert.Contains(t, md, "![Rooftops](https://img.example.com/hero.jpg)")
	assert.Contains(t, md, "*Sunset over the medina*")
	assert.Contains(t, md, "## Where to wander first")
	assert.Contains(t, md, "Start in the medina.")
	assert.Contains(t, md, "![Medina](https://img.example.com/medina.jpg)")

	source := "**Source:** [https://www.united.com/en/us/hemispheres/places-to-go/africa/morocco/marrakesh-solo-travel.html]"
	assert.Contains(t, md, source)
	assert.Contains(t, md, "\n---\n")
	assert.NotContains(t, md, "Related Articles", "no related block without related articles")
}

func TestMarkdownRelatedCap(t *testing.T) {
	article := sampleArticle()
	for i := 0; i < 7; i++ {
		article.RelatedArticles = append(article.RelatedArticles, models.RelatedArticle{
			Title: fmt.Sprintf("Related %d", i),
			URL:   fmt.Sprintf("https://example.com/%d", i),
		})
	}

	md := Markdown(article)

	assert.Contains(t, md, "## Related Articles")
	assert.Equal(t, 5, strings.Count(md, "- [Related"), "related list capped at 5")
	assert.NotContains(t, md, "Related 5")
}

func TestMarkdownMinimalArticle(t *testing.T) {
	article := &models.Article{URL: "https://example.com/a.html", Title: "Bare"}

	md := Markdown(article)

	assert.True(t, strings.HasPrefix(md, "# Bare\n"))
	assert.NotContains(t, md, "**Date:**")
	assert.NotContains(t, md, "**Author:**")
	assert.NotContains(t, md, "![")
}
