package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/shanehull/shopfinder/internal/model"
)

var ErrNoContact = errors.New("no contact details found")

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// ContactEnricher visits a lead's page and records the first email and phone.
type ContactEnricher struct {
	logger    *slog.Logger
	userAgent string
	timeout   time.Duration
}

func NewContactEnricher(logger *slog.Logger, userAgent string, timeout time.Duration) *ContactEnricher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ContactEnricher{logger: logger, userAgent: userAgent, timeout: timeout}
}

func (c *ContactEnricher) Enrich(ctx context.Context, l *model.Lead) error {
	opts := []colly.CollectorOption{colly.StdlibContext(ctx), colly.MaxDepth(1)}
	if c.userAgent != "" {
		opts = append(opts, colly.UserAgent(c.userAgent))
	}
	col := colly.NewCollector(opts...)
	col.SetRequestTimeout(c.timeout)

	// Callbacks run in registration order: explicit links win over page text.
	col.OnHTML(`a[href^="mailto:"]`, func(e *colly.HTMLElement) {
		if l.Email == "" {
			l.Email = linkTarget(e.Attr("href"), "mailto:")
		}
	})
	col.OnHTML(`a[href^="tel:"]`, func(e *colly.HTMLElement) {
		if l.Phone == "" {
			l.Phone = linkTarget(e.Attr("href"), "tel:")
		}
	})
	col.OnHTML("body", func(e *colly.HTMLElement) {
		if l.Email == "" {
			l.Email = emailPattern.FindString(e.Text)
		}
	})

	if err := col.Visit(l.URL); err != nil {
		return fmt.Errorf("visit %s: %w", l.URL, err)
	}
	if !l.HasContact() {
		return ErrNoContact
	}
	c.logger.Debug("Contact found", "url", l.URL, "email", l.Email, "phone", l.Phone)
	return nil
}

func linkTarget(href, scheme string) string {
	v := strings.TrimSpace(href)
	if len(v) >= len(scheme) && strings.EqualFold(v[:len(scheme)], scheme) {
		v = v[len(scheme):]
	}
	v, _, _ = strings.Cut(v, "?")
	if unescaped, err := url.PathUnescape(v); err == nil {
		v = unescaped
	}
	return strings.TrimSpace(v)
}
