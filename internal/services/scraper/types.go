package scraper

import (
	"context"
	"time"
)

// Headline is one football news link scraped from a listing page.
type Headline struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// cachedHeadlines is the KV payload for a headline fetch.
type cachedHeadlines struct {
	FetchedAt time.Time  `json:"fetched_at"`
	Items     []Headline `json:"items"`
}

// HeadlineSource fetches current headlines.
type HeadlineSource interface {
	Headlines(ctx context.Context, limit int) ([]Headline, error)
}
