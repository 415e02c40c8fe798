package hemispheres

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseArticleHTML re-extracts an article from the captured document when
// the in-page script came back empty. It walks generic h2/h3 headings and
// their trailing paragraphs, the same shape the in-page fallback branch
// uses, but against the static HTML.
func parseArticleHTML(rawHTML string) (*extractedArticle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("could not parse document: %w", err)
	}

	data := &extractedArticle{
		Title: strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	if img := doc.Find(`[class*="hero"] img`).First(); img.Length() > 0 {
		if src, ok := img.Attr("src"); ok && src != "" {
			data.HeroImage = &extractedImage{
				Src: src,
				Alt: img.AttrOr("alt", ""),
			}
		}
	}

	doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		text := strings.TrimSpace(heading.Text())
		if len(text) <= 10 || strings.Contains(text, "Menu") || strings.Contains(text, "Search") {
			return
		}

		section := extractedSection{
			Heading:      text,
			HeadingLevel: headingLevel(goquery.NodeName(heading)),
		}

		for next := heading.Next(); next.Length() > 0; next = next.Next() {
			name := goquery.NodeName(next)
			if name == "h2" || name == "h3" {
				break
			}
			if name == "p" {
				if t := strings.TrimSpace(next.Text()); t != "" {
					section.Content += t + "\n\n"
				}
			}
			next.Find("img").Each(func(_ int, img *goquery.Selection) {
				if src, ok := img.Attr("src"); ok && src != "" {
					section.Images = append(section.Images, extractedImage{
						Src: src,
						Alt: img.AttrOr("alt", ""),
					})
				}
			})
		}

		if section.Content != "" || len(section.Images) > 0 {
			data.Sections = append(data.Sections, section)
		}
	})

	return data, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 2
}
