package storage

import (
	"fmt"
	"strings"

	"hemispheres-scraper/models"
)

// maxRelated caps the trailing related-articles list.
const maxRelated = 5

// Markdown renders the article as a Markdown document: title, emphasized
// subtitle, date/author metadata, hero image, source link, then one block
// per section, with related articles at the end.
func Markdown(article *models.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", article.Title)

	if article.Subtitle != "" {
		fmt.Fprintf(&b, "*%s*\n\n", article.Subtitle)
	}

	if article.Date != "" {
		fmt.Fprintf(&b, "**Date:** %s\n", article.Date)
	}
	if article.Author != "" {
		fmt.Fprintf(&b, "**Author:** %s\n", article.Author)
	}
	if article.Date != "" || article.Author != "" {
		b.WriteString("\n")
	}

	if article.HeroImage != nil {
		writeImage(&b, *article.HeroImage)
	}

	fmt.Fprintf(&b, "**Source:** [%s](%s)\n\n---\n\n", article.URL, article.URL)

	for _, section := range article.Sections {
		if section.Heading != "" {
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", section.HeadingLevel), section.Heading)
		}
		if section.Content != "" {
			fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(section.Content))
		}
		for _, img := range section.Images {
			writeImage(&b, img)
		}
	}

	if len(article.RelatedArticles) > 0 {
		b.WriteString("---\n\n## Related Articles\n\n")
		related := article.RelatedArticles
		if len(related) > maxRelated {
			related = related[:maxRelated]
		}
		for _, rel := range related {
			fmt.Fprintf(&b, "- [%s](%s)\n", rel.Title, rel.URL)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeImage(b *strings.Builder, img models.ImageData) {
	fmt.Fprintf(b, "![%s](%s)\n", img.Alt, img.Src)
	if img.Caption != "" {
		fmt.Fprintf(b, "*%s*\n", img.Caption)
	}
	b.WriteString("\n")
}
