package hemispheres

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"hemispheres-scraper/utils"
)

// Locator is one strategy for finding the reveal control: either a CSS
// selector, or a tag plus a case-insensitive visible-text match. The
// waterfall in listing.go is an ordered slice of these, so new site variants
// are additive.
type Locator struct {
	Selector string
	Tag      string
	Text     string
}

// Element is a handle to a control located on the page.
type Element interface {
	ScrollIntoView() error
	Click() error
}

// Page is the browser capability surface the crawler and orchestrator use.
// Production pages are chromedp tabs; tests substitute fakes.
type Page interface {
	Navigate(url string, timeout time.Duration) error
	Evaluate(script string, out interface{}) error
	// LocateByTextOrClass tries each locator in order and returns a handle
	// to the first visible match, or nil when none matches. Individual
	// strategy failures are swallowed.
	LocateByTextOrClass(locators []Locator) (Element, error)
	WaitFixed(d time.Duration)
	WaitForSelector(selector string, timeout time.Duration) error
	CurrentURL() (string, error)
	RenderedHTML() (string, error)
}

// browserPage wraps one chromedp tab context.
type browserPage struct {
	ctx context.Context
}

func newBrowserPage(ctx context.Context) *browserPage {
	return &browserPage{ctx: ctx}
}

func (p *browserPage) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		utils.HideWebDriver(),
	)
}

func (p *browserPage) Evaluate(script string, out interface{}) error {
	return chromedp.Run(p.ctx, chromedp.Evaluate(script, out))
}

func (p *browserPage) LocateByTextOrClass(locators []Locator) (Element, error) {
	for _, loc := range locators {
		var found bool
		if err := p.Evaluate(locatorProbe(loc), &found); err != nil {
			continue
		}
		if found {
			return &browserElement{page: p, loc: loc}, nil
		}
	}
	return nil, nil
}

func (p *browserPage) WaitFixed(d time.Duration) {
	_ = chromedp.Run(p.ctx, chromedp.Sleep(d))
}

func (p *browserPage) WaitForSelector(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *browserPage) CurrentURL() (string, error) {
	var loc string
	if err := chromedp.Run(p.ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

func (p *browserPage) RenderedHTML() (string, error) {
	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// browserElement re-finds its node by locator on every action; SPA re-renders
// replace DOM nodes between locate and click.
type browserElement struct {
	page *browserPage
	loc  Locator
}

func (e *browserElement) ScrollIntoView() error {
	script := fmt.Sprintf(`(() => {
		const el = %s;
		if (el) el.scrollIntoView({block: 'center'});
	})()`, finderExpr(e.loc))
	return e.page.Evaluate(script, nil)
}

func (e *browserElement) Click() error {
	script := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el || el.offsetParent === null) return false;
		el.click();
		return true;
	})()`, finderExpr(e.loc))

	var clicked bool
	if err := e.page.Evaluate(script, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("control %q no longer visible", e.loc.describe())
	}
	return nil
}

func (l Locator) describe() string {
	if l.Selector != "" {
		return l.Selector
	}
	return l.Tag + ":" + l.Text
}

// finderExpr builds a JS expression evaluating to the locator's element or
// null.
func finderExpr(loc Locator) string {
	if loc.Selector != "" {
		return fmt.Sprintf(`document.querySelector(%q)`, loc.Selector)
	}
	return fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).find(el => (el.textContent || '').toLowerCase().includes(%q))`,
		loc.Tag, loc.Text,
	)
}

func locatorProbe(loc Locator) string {
	return fmt.Sprintf(`(() => {
		const el = %s;
		return !!(el && el.offsetParent !== null);
	})()`, finderExpr(loc))
}
