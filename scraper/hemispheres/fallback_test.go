package hemispheres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fallbackFixture = `<!DOCTYPE html>
<html>
<body>
  <header><h2>Menu and Search</h2></header>
  <div class="hero-banner"><img src="https://img.example.com/hero.jpg" alt="Marrakesh rooftops"></div>
  <main>
    <h1>Marrakesh Solo Travel</h1>
    <h2>Where to wander first</h2>
    <p>Start in the medina before the crowds arrive.</p>
    <p>Keep the Koutoubia minaret in sight to stay oriented.</p>
    <div><img src="https://img.example.com/medina.jpg" alt="Medina alley"></div>
    <h3>Mint tea etiquette</h3>
    <p>Accepting a glass is the start of every conversation.</p>
    <h2>Tips</h2>
  </main>
</body>
</html>`

func TestParseArticleHTML(t *testing.T) {
	data, err := parseArticleHTML(fallbackFixture)
	require.NoError(t, err)

	assert.Equal(t, "Marrakesh Solo Travel", data.Title)

	require.NotNil(t, data.HeroImage)
	assert.Equal(t, "https://img.example.com/hero.jpg", data.HeroImage.Src)
	assert.Equal(t, "Marrakesh rooftops", data.HeroImage.Alt)

	require.Len(t, data.Sections, 2, "short headings and empty sections are dropped")

	first := data.Sections[0]
	assert.Equal(t, "Where to wander first", first.Heading)
	assert.Equal(t, 2, first.HeadingLevel)
	assert.Contains(t, first.Content, "medina before the crowds")
	assert.Contains(t, first.Content, "Koutoubia")
	require.Len(t, first.Images, 1)
	assert.Equal(t, "https://img.example.com/medina.jpg", first.Images[0].Src)

	second := data.Sections[1]
	assert.Equal(t, "Mint tea etiquette", second.Heading)
	assert.Equal(t, 3, second.HeadingLevel)
}

func TestParseArticleHTMLEmptyDocument(t *testing.T) {
	data, err := parseArticleHTML("<html><body><p>stray text</p></body></html>")
	require.NoError(t, err)

	assert.Empty(t, data.Title)
	assert.Empty(t, data.Sections)
}
