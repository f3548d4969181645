package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint  = "https://html.duckduckgo.com/html/"
	DefaultRegion    = "wt-wt"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// Safe search levels map onto the "kp" parameter.
var safeSearchParams = map[string]string{
	"off":      "-2",
	"moderate": "-1",
	"strict":   "1",
}

type Options struct {
	Endpoint          string
	Region            string
	SafeSearch        string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
}

type DuckDuckGo struct {
	logger    *slog.Logger
	endpoint  string
	region    string
	safe      string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
}

func NewDuckDuckGo(logger *slog.Logger, opts Options) (*DuckDuckGo, error) {
	d := &DuckDuckGo{
		logger:    logger,
		endpoint:  opts.Endpoint,
		region:    opts.Region,
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	if d.endpoint == "" {
		d.endpoint = DefaultEndpoint
	}
	if d.region == "" {
		d.region = DefaultRegion
	}
	if d.userAgent == "" {
		d.userAgent = DefaultUserAgent
	}
	if d.timeout <= 0 {
		d.timeout = 15 * time.Second
	}

	level := strings.ToLower(strings.TrimSpace(opts.SafeSearch))
	if level == "" {
		level = "off"
	}
	kp, ok := safeSearchParams[level]
	if !ok {
		return nil, fmt.Errorf("unknown safe search level %q", opts.SafeSearch)
	}
	d.safe = kp

	if opts.RequestsPerSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return d, nil
}

func (d *DuckDuckGo) Name() string { return "DuckDuckGo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// A fresh collector per query; colly refuses to revisit a URL otherwise.
	c := colly.NewCollector(
		colly.UserAgent(d.userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(d.timeout)

	var results []Result
	c.OnHTML("div.result", func(e *colly.HTMLElement) {
		if len(results) >= limit {
			return
		}
		if strings.Contains(e.Attr("class"), "result--ad") {
			return
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(e.ChildText("a.result__a")),
			URL:     unwrapRedirect(e.ChildAttr("a.result__a", "href")),
			Snippet: strings.TrimSpace(e.ChildText(".result__snippet")),
		})
	})

	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", d.region)
	params.Set("kp", d.safe)

	d.logger.Debug("Searching", "query", query, "limit", limit)
	if err := c.Visit(d.endpoint + "?" + params.Encode()); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	d.logger.Debug("Search complete", "query", query, "results", len(results))
	return results, nil
}

// unwrapRedirect resolves DuckDuckGo "/l/?uddg=" tracking links to their target.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}
