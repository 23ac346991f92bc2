// Package fetch downloads article URLs and extracts readable text content.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/FrenchMajesty/pr-monitor/monitor"
)

// ArticleFetcher downloads a URL and converts the page into plain article
// text suitable for classification.
type ArticleFetcher struct {
	client    *http.Client
	converter *md.Converter
}

var _ monitor.ArticleFetcher = (*ArticleFetcher)(nil)

// NewArticleFetcher creates a fetcher with a bounded request timeout.
func NewArticleFetcher(timeout time.Duration) *ArticleFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ArticleFetcher{
		client:    &http.Client{Timeout: timeout},
		converter: md.NewConverter("", true, nil),
	}
}

// Fetch downloads url and extracts the page title and body text. Network
// failures, bad statuses and pages with no extractable content all surface
// as *monitor.FetchError.
func (f *ArticleFetcher) Fetch(ctx context.Context, url string) (monitor.ArticleContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return monitor.ArticleContent{}, &monitor.FetchError{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return monitor.ArticleContent{}, &monitor.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return monitor.ArticleContent{}, &monitor.FetchError{
			URL: url,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return monitor.ArticleContent{}, &monitor.FetchError{URL: url, Err: err}
	}

	// Navigation, scripts and styling are noise for classification.
	doc.Find("script, style, nav, header, footer, aside").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	body := doc.Find("body")
	html, err := goquery.OuterHtml(body)
	if err != nil {
		return monitor.ArticleContent{}, &monitor.FetchError{URL: url, Err: err}
	}

	text, err := f.converter.ConvertString(html)
	if err != nil {
		return monitor.ArticleContent{}, &monitor.FetchError{URL: url, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return monitor.ArticleContent{}, &monitor.FetchError{
			URL: url,
			Err: fmt.Errorf("no readable content"),
		}
	}

	if title != "" && !strings.Contains(text, title) {
		text = title + "\n\n" + text
	}

	return monitor.ArticleContent{Text: text, SourceURL: url}, nil
}
