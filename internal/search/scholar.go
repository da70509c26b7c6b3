package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/util"
	"github.com/ppiankov/factguard/internal/worker"
	"golang.org/x/net/html"
)

// scholarBaseURL is the Google Scholar result page. Declared as a var so
// tests can substitute an httptest server.
var scholarBaseURL = "https://scholar.google.com/scholar"

// ScholarBackend scrapes Google Scholar result pages for academic sources.
// It honors robots.txt and the shared per-domain rate limiter; Scholar has
// no official API, so this connector is best effort and disabled by
// default.
type ScholarBackend struct {
	client     *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	maxResults int
	userAgent  string
}

// NewScholarBackend creates a Google Scholar connector
func NewScholarBackend(client *http.Client, robots *util.RobotsChecker, limiter *worker.Limiter, maxResults int, userAgent string) *ScholarBackend {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &ScholarBackend{
		client:     client,
		robots:     robots,
		limiter:    limiter,
		maxResults: maxResults,
		userAgent:  userAgent,
	}
}

// Name returns the connector identifier
func (b *ScholarBackend) Name() string { return "scholar" }

// Search fetches and parses one Scholar result page
func (b *ScholarBackend) Search(ctx context.Context, query string) ([]*model.Source, error) {
	params := url.Values{
		"q":      {query},
		"hl":     {"en"},
		"as_sdt": {"0,5"},
	}
	reqURL := scholarBaseURL + "?" + params.Encode()

	allowed, crawlDelay, err := b.robots.CanFetch(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("robots.txt check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", reqURL)
	}
	if err := b.limiter.WaitWithDelay(ctx, reqURL, crawlDelay); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Scholar returned HTTP %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse Scholar page: %w", err)
	}

	return b.parseResults(doc), nil
}

// parseResults walks the result page. Each hit is an <h3 class="gs_rt">
// holding the title link, with a sibling <div class="gs_rs"> snippet.
func (b *ScholarBackend) parseResults(doc *html.Node) []*model.Source {
	var sources []*model.Source

	for _, entry := range findByClass(doc, "div", "gs_ri") {
		if len(sources) >= b.maxResults {
			break
		}

		titles := findByClass(entry, "h3", "gs_rt")
		if len(titles) == 0 {
			continue
		}
		link := findFirstLink(titles[0])
		title := strings.TrimSpace(nodeText(titles[0]))
		if title == "" || link == "" {
			continue
		}

		snippet := ""
		if snippets := findByClass(entry, "div", "gs_rs"); len(snippets) > 0 {
			snippet = strings.TrimSpace(nodeText(snippets[0]))
		}

		sources = append(sources, &model.Source{
			Title:      title,
			Snippet:    snippet,
			Link:       link,
			SourceType: model.SourceTypeAcademic,
		})
	}

	return sources
}

// findByClass collects descendant elements of the given tag carrying the
// class token.
func findByClass(n *html.Node, tag, class string) []*html.Node {
	var found []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// findFirstLink returns the href of the first anchor under n
func findFirstLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				return attr.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if link := findFirstLink(c); link != "" {
			return link
		}
	}
	return ""
}

// nodeText concatenates the text nodes under n, skipping scripts and styles
func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
