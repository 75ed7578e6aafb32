// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed fetches the newest arXiv entries for a keyword set and returns
// them as raw types.FeedEntry values. It performs one page request with a
// bounded retry; it does not paginate or filter.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	defaultMaxResults    = 200
	maxMaxResults        = 2000
	defaultTimeout       = 30 * time.Second
	defaultRetryInterval = 3 * time.Second
	defaultUserAgent     = "paper-digest/0.1"

	arxivNamespace = "arxiv"
	commentElement = "comment"
)

// Errors returned by Fetch. Callers use errors.Is to tell a failed fetch
// apart from an empty result.
var (
	ErrFetch  = errors.New("feed fetch failed")
	ErrStatus = errors.New("unexpected feed status")
)

// Client queries the arXiv API.
type Client struct {
	HTTP    *http.Client
	Config  types.FeedConfig
	Limiter httputil.Waiter
	Logger  *zerolog.Logger

	parser *gofeed.Parser
}

// NewClient applies defaults to cfg and returns a client whose attempts are
// spaced at least cfg.RetryInterval apart.
func NewClient(cfg types.FeedConfig, logger *zerolog.Logger) *Client {
	cfg = withDefaults(cfg)
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		Config:  cfg,
		Limiter: rate.NewLimiter(rate.Every(cfg.RetryInterval), 1),
		Logger:  logger,
		parser:  gofeed.NewParser(),
	}
}

func withDefaults(cfg types.FeedConfig) types.FeedConfig {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.MaxResults > maxMaxResults {
		cfg.MaxResults = maxMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return cfg
}

// Fetch issues the keyword query and returns the entries in feed order.
// Every failure is wrapped with ErrFetch.
func (c *Client) Fetch(ctx context.Context) ([]types.FeedEntry, error) {
	q := BuildQuery(c.Config.Keywords)
	if q == "" {
		return nil, fmt.Errorf("%w: no keywords configured", ErrFetch)
	}

	base := c.Config.Endpoint
	if base == "" {
		base = arxivAPIBase
	}
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		base, q, c.Config.MaxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	c.Logger.Debug().Str("url", reqURL).Msg("fetching arXiv feed")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries, c.Limiter, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("%w: arXiv API request: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w: HTTP %d", ErrFetch, ErrStatus, resp.StatusCode)
	}

	parser := c.parser
	if parser == nil {
		parser = gofeed.NewParser()
	}
	parsed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing arXiv response: %w", ErrFetch, err)
	}

	entries := make([]types.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, toEntry(item))
	}
	c.Logger.Debug().Int("entries", len(entries)).Msg("arXiv feed parsed")
	return entries, nil
}

// BuildQuery joins keywords into an arXiv search_query value: each keyword
// becomes all:<term>, multi-word keywords are quoted as phrases, and terms
// are OR-combined. Blank keywords are skipped.
func BuildQuery(keywords []string) string {
	var parts []string
	for _, kw := range keywords {
		kw = strings.Trim(strings.TrimSpace(kw), `"`)
		kw = strings.Join(strings.Fields(kw), " ")
		if kw == "" {
			continue
		}
		if strings.Contains(kw, " ") {
			kw = `"` + kw + `"`
		}
		parts = append(parts, "all:"+url.QueryEscape(kw))
	}
	return strings.Join(parts, "+OR+")
}

func toEntry(item *gofeed.Item) types.FeedEntry {
	e := types.FeedEntry{
		ID:           item.GUID,
		Title:        item.Title,
		Summary:      item.Description,
		Link:         item.Link,
		Published:    item.PublishedParsed,
		PublishedRaw: item.Published,
	}
	if e.Link == "" {
		e.Link = item.GUID
	}
	for _, a := range item.Authors {
		if a == nil {
			continue
		}
		e.Authors = append(e.Authors, a.Name)
	}
	if c, ok := comment(item); ok {
		e.Comment = &c
	}
	return e
}

// comment reads the arxiv:comment extension element.
func comment(item *gofeed.Item) (string, bool) {
	ns, ok := item.Extensions[arxivNamespace]
	if !ok {
		return "", false
	}
	exts := ns[commentElement]
	if len(exts) == 0 {
		return "", false
	}
	return exts[0].Value, true
}
