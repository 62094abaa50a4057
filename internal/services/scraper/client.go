// Package scraper fetches football headlines used as conversation hints.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/storage"
)

const cacheKey = "headlines:v1"

// DefaultSelector matches article links on BBC Sport listing pages.
const DefaultSelector = `a[href*="/sport/football/articles/"], a[href*="/sport/football/"][data-testid="internal-link"]`

// Client is the scraper client.
type Client struct {
	httpClient *http.Client
	kv         storage.KV
	pageURL    string
	selector   string
	ttl        time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewClient creates a new scraper client for pageURL. kv may be nil to disable caching.
func NewClient(pageURL string, ttl time.Duration, kv storage.KV, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		kv:         kv,
		pageURL:    pageURL,
		selector:   DefaultSelector,
		ttl:        ttl,
		log:        log,
		now:        time.Now,
	}
}

// Headlines returns up to limit headlines, served from cache while fresh.
func (c *Client) Headlines(ctx context.Context, limit int) ([]Headline, error) {
	if cached, ok := c.fromCache(); ok {
		c.log.Debug("headlines cache hit", zap.Int("items", len(cached)))
		return truncate(cached, limit), nil
	}

	c.log.Info("scraping headlines", zap.String("url", c.pageURL))
	items, err := c.scrape(ctx)
	if err != nil {
		return nil, err
	}

	if c.kv != nil && len(items) > 0 {
		data, _ := json.Marshal(cachedHeadlines{FetchedAt: c.now(), Items: items})
		if err := c.kv.Set(cacheKey, string(data)); err != nil {
			c.log.Warn("failed to cache headlines", zap.Error(err))
		}
	}

	return truncate(items, limit), nil
}

func (c *Client) fromCache() ([]Headline, bool) {
	if c.kv == nil {
		return nil, false
	}
	val, err := c.kv.Get(cacheKey)
	if err != nil || val == "" {
		return nil, false
	}
	var cached cachedHeadlines
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false
	}
	if c.now().Sub(cached.FetchedAt) > c.ttl {
		return nil, false
	}
	return cached.Items, true
}

// scrape downloads the listing page and extracts unique article links.
func (c *Client) scrape(ctx context.Context) ([]Headline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(c.pageURL)
	seen := make(map[string]bool)
	var results []Headline

	doc.Find(c.selector).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		// Prefer a heading inside the card over the full link text.
		title := strings.TrimSpace(link.Find("h2, h3, p[role=text], span[role=text]").First().Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		title = strings.Join(strings.Fields(title), " ")
		if title == "" {
			return
		}

		abs := resolve(base, href)
		if seen[abs] {
			return
		}
		seen[abs] = true

		results = append(results, Headline{Title: title, URL: abs})
	})

	if len(results) == 0 {
		return nil, fmt.Errorf("no headlines found at %s", c.pageURL)
	}
	return results, nil
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func truncate(items []Headline, limit int) []Headline {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
