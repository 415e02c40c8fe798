package models

// ImageData describes one image found in an article.
type ImageData struct {
	Src         string `json:"src"`
	Alt         string `json:"alt"`
	Caption     string `json:"caption,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

// ArticleSection is one heading plus its paragraphs and images.
type ArticleSection struct {
	Heading      string      `json:"heading,omitempty"`
	HeadingLevel int         `json:"heading_level"`
	Content      string      `json:"content"`
	Images       []ImageData `json:"images"`
}

// RelatedArticle links to another article recommended from the page.
type RelatedArticle struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Article is the full extracted record for one magazine article.
// RawHTML holds the rendered document verbatim and is persisted separately.
type Article struct {
	URL             string
	Title           string
	Subtitle        string
	Date            string
	Author          string
	HeroImage       *ImageData
	Sections        []ArticleSection
	RelatedArticles []RelatedArticle
	RawHTML         string
}
