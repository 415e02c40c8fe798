package hemispheres

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Taxonomy markers in article paths. "places-to-go" is the listing root for
// destination articles; "things-to-do" is a sibling branch the crawler
// skips.
const (
	listingRootMarker = "/places-to-go/"
	alternateMarker   = "/things-to-do/"
)

// NormalizeURL resolves rawHref against base and strips the fragment and
// query, leaving scheme://host/path. Every discovered href goes through here
// before any set-membership test — raw hrefs are never compared directly.
func NormalizeURL(rawHref, base string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("bad base url %q: %w", base, err)
	}
	ref, err := url.Parse(rawHref)
	if err != nil {
		return "", fmt.Errorf("bad href %q: %w", rawHref, err)
	}

	resolved := baseURL.ResolveReference(ref)
	if resolved.Scheme == "" || resolved.Host == "" {
		return "", fmt.Errorf("href %q does not resolve to an absolute url", rawHref)
	}

	return resolved.Scheme + "://" + resolved.Host + resolved.Path, nil
}

// IsValidArticleURL reports whether url points at an actual article page.
// When region is set the path must also contain /{region}/ (case
// insensitive). Index pages match the listing root too, so the index and
// things-to-do checks are both required.
func IsValidArticleURL(rawURL, region string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := strings.ToLower(parsed.Path)

	if !strings.Contains(p, listingRootMarker) {
		return false
	}
	if strings.Contains(p, alternateMarker) {
		return false
	}
	if region != "" && !strings.Contains(p, "/"+strings.ToLower(region)+"/") {
		return false
	}
	if strings.HasSuffix(p, "/index.html") || strings.HasSuffix(p, "/index") {
		return false
	}
	if !strings.HasSuffix(p, ".html") {
		return false
	}
	return true
}

// DeriveSlug returns the path segment immediately following the listing
// root, lower-cased: "africa" for both /places-to-go/africa/index.html and
// /places-to-go/africa/morocco/some-article.html. It doubles as the place
// display name, the taxonomy filter value, and the output region. Empty when
// the URL has no such segment.
func DeriveSlug(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := strings.ToLower(parsed.Path)

	idx := strings.Index(p, listingRootMarker)
	if idx < 0 {
		return ""
	}

	rest := p[idx+len(listingRootMarker):]
	seg, _, _ := strings.Cut(rest, "/")
	// A filename here (e.g. index.html) means the root itself, not a place.
	if seg == "" || strings.Contains(seg, ".") {
		return ""
	}
	return seg
}

// SlugFromURL returns the final path segment with its extension stripped;
// the per-article output filename. "marrakesh-solo-travel" for
// .../morocco/marrakesh-solo-travel.html.
func SlugFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	base := path.Base(parsed.Path)
	if base == "/" || base == "." {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
